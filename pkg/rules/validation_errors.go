package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes one failed rule for one field.
type ValidationError struct {
	Field             string         `json:"field"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"translation_key,omitempty"`
	TranslationValues map[string]any `json:"translation_values,omitempty"`
}

// ValidationErrors is the error returned by an Engine when rules fail.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ErrValidationFailed.Error()
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports ErrValidationFailed as a match so callers can use errors.Is.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages reported for field, in rule order.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// For returns the errors reported for field. The result is never nil so an
// empty list can be told apart from "not validated" by callers storing it.
func (ve ValidationErrors) For(field string) ValidationErrors {
	out := ValidationErrors{}
	for _, err := range ve {
		if err.Field == field {
			out = append(out, err)
		}
	}
	return out
}

// Fields returns the distinct field names in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// ByField groups the errors by field name.
func (ve ValidationErrors) ByField() map[string]ValidationErrors {
	out := make(map[string]ValidationErrors, len(ve))
	for _, err := range ve {
		out[err.Field] = append(out[err.Field], err)
	}
	return out
}

// Messages returns the plain messages, in order.
func (ve ValidationErrors) Messages() []string {
	out := make([]string, 0, len(ve))
	for _, err := range ve {
		out = append(out, err.Message)
	}
	return out
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var verrs ValidationErrors
	return errors.As(err, &verrs)
}
