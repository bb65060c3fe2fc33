package rules

import "errors"

var (
	// ErrValidationFailed is the fallback message for an empty ValidationErrors.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidRule is returned when a rule declaration cannot be used.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrInvalidRuleFile is returned when a rule file cannot be decoded.
	ErrInvalidRuleFile = errors.New("invalid rule file")

	// ErrValidatorPanic is returned when a custom validator panics.
	ErrValidatorPanic = errors.New("custom validator panicked")
)
