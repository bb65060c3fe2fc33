package rules

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Source maps a field name to the value being validated.
type Source map[string]any

// Engine validates a source against a rule set.
type Engine interface {
	// Validate returns nil, a ValidationErrors value, or an engine error
	// such as a context cancellation.
	Validate(ctx context.Context, set RuleSet, src Source) error
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, set RuleSet, src Source) error

func (f EngineFunc) Validate(ctx context.Context, set RuleSet, src Source) error {
	return f(ctx, set, src)
}

// Option configures a Validator.
type Option func(*Validator)

// WithStopOnFirst stops checking a field after its first failing rule.
func WithStopOnFirst() Option {
	return func(v *Validator) { v.stopOnFirst = true }
}

// Validator is the default Engine.
type Validator struct {
	stopOnFirst bool
}

var _ Engine = (*Validator)(nil)

func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every rule of set against src. Fields present in set but
// missing from src are validated as nil.
func (v *Validator) Validate(ctx context.Context, set RuleSet, src Source) error {
	var verrs ValidationErrors

	for _, field := range set.Fields() {
		value := src[field]
		for _, rule := range set[field] {
			if err := ctx.Err(); err != nil {
				return err
			}

			found, err := v.apply(ctx, field, value, rule)
			if err != nil {
				return err
			}
			verrs = append(verrs, found...)
			if len(found) > 0 && v.stopOnFirst {
				break
			}
		}
	}

	if verrs.IsEmpty() {
		return nil
	}
	return verrs
}

func (v *Validator) apply(ctx context.Context, field string, value any, rule Rule) (ValidationErrors, error) {
	if rule.Transform != nil {
		value = rule.Transform(value)
	}

	var found ValidationErrors
	if isEmpty(value) {
		if rule.Required {
			found = append(found, newError(field, "validation.required", "field is required", nil))
		}
	} else {
		found = append(found, checkValue(field, value, rule)...)
	}

	if len(found) == 0 && rule.Validator != nil {
		custom, err := runCustom(ctx, field, value, rule)
		if err != nil {
			return nil, err
		}
		found = append(found, custom...)
	}

	// A custom message is its own translation key.
	if rule.Message != "" {
		for i := range found {
			found[i].Message = rule.Message
			found[i].TranslationKey = rule.Message
		}
	}
	return found, nil
}

func checkValue(field string, value any, rule Rule) ValidationErrors {
	var found ValidationErrors

	if rule.Whitespace {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			found = append(found, newError(field, "validation.whitespace", "cannot be empty", nil))
			return found
		}
	}

	if rule.Type != "" && !matchesType(value, rule.Type) {
		found = append(found, newError(field, "validation.type",
			fmt.Sprintf("is not a valid %s", rule.Type),
			map[string]any{"type": string(rule.Type)}))
		return found
	}

	if size, unit, ok := measure(value); ok {
		found = append(found, checkBounds(field, size, unit, rule)...)
	}

	if rule.Pattern != nil {
		if s, ok := value.(string); ok && !rule.Pattern.MatchString(s) {
			found = append(found, newError(field, "validation.pattern", "has an invalid format",
				map[string]any{"pattern": rule.Pattern.String()}))
		}
	}

	if len(rule.Enum) > 0 && !inEnum(value, rule.Enum) {
		found = append(found, newError(field, "validation.enum", "must be one of the allowed values",
			map[string]any{"values": rule.Enum}))
	}

	return found
}

func checkBounds(field string, size float64, unit string, rule Rule) ValidationErrors {
	values := map[string]any{"unit": unit}
	switch {
	case rule.Len != nil:
		if size != float64(*rule.Len) {
			values["length"] = *rule.Len
			return ValidationErrors{newError(field, "validation.exact_length",
				fmt.Sprintf("must be exactly %d%s", *rule.Len, suffix(unit)), values)}
		}
	case rule.Min != nil && rule.Max != nil:
		if size < *rule.Min || size > *rule.Max {
			values["min"], values["max"] = *rule.Min, *rule.Max
			return ValidationErrors{newError(field, "validation.between",
				fmt.Sprintf("must be between %v and %v%s", *rule.Min, *rule.Max, suffix(unit)), values)}
		}
	case rule.Min != nil:
		if size < *rule.Min {
			values["min"] = *rule.Min
			return ValidationErrors{newError(field, "validation.min",
				fmt.Sprintf("must be at least %v%s", *rule.Min, suffix(unit)), values)}
		}
	case rule.Max != nil:
		if size > *rule.Max {
			values["max"] = *rule.Max
			return ValidationErrors{newError(field, "validation.max",
				fmt.Sprintf("must be at most %v%s", *rule.Max, suffix(unit)), values)}
		}
	}
	return nil
}

func suffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}

func runCustom(ctx context.Context, field string, value any, rule Rule) (found ValidationErrors, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = fmt.Errorf("%w: field %q: %v", ErrValidatorPanic, field, r)
		}
	}()

	cerr := rule.Validator(ctx, field, value)
	switch {
	case cerr == nil:
		return nil, nil
	case errors.Is(cerr, context.Canceled), errors.Is(cerr, context.DeadlineExceeded):
		return nil, cerr
	}

	if verrs := ExtractValidationErrors(cerr); verrs != nil {
		return verrs, nil
	}
	return ValidationErrors{newError(field, "validation.custom", cerr.Error(), nil)}, nil
}

func inEnum(value any, enum []any) bool {
	for _, candidate := range enum {
		if reflect.DeepEqual(value, candidate) {
			return true
		}
		a, aok := toFloat(value)
		b, bok := toFloat(candidate)
		if aok && bok && a == b {
			return true
		}
	}
	return false
}

func newError(field, key, msg string, values map[string]any) ValidationError {
	tv := map[string]any{"field": field}
	for k, v := range values {
		tv[k] = v
	}
	return ValidationError{
		Field:             field,
		Message:           msg,
		TranslationKey:    key,
		TranslationValues: tv,
	}
}
