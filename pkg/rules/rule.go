package rules

import (
	"context"
	"fmt"
	"regexp"
)

// Target restricts a rule to one input event kind.
type Target string

const (
	// TargetAny applies the rule on every event.
	TargetAny    Target = ""
	TargetBlur   Target = "blur"
	TargetChange Target = "change"
)

// ParseTarget converts a declared target into a Target.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetAny, TargetBlur, TargetChange:
		return Target(s), nil
	default:
		return TargetAny, fmt.Errorf("%w: unknown target %q", ErrInvalidRule, s)
	}
}

// Type is the expected kind of a field value.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeFloat   Type = "float"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
	TypeEmail   Type = "email"
	TypeURL     Type = "url"
	TypeDate    Type = "date"
)

func (t Type) valid() bool {
	switch t {
	case "", TypeString, TypeNumber, TypeInteger, TypeFloat, TypeBoolean,
		TypeArray, TypeObject, TypeEmail, TypeURL, TypeDate:
		return true
	}
	return false
}

// ValidatorFunc is a custom check. A nil return means the value passed.
// Returning ValidationErrors reports them as is; any other error becomes a
// single ValidationError carrying the rule message or the error text, except
// for context errors which abort validation.
type ValidatorFunc func(ctx context.Context, field string, value any) error

// Rule is a set of constraints for one field.
//
// Len, Min and Max measure the rune count of strings, the length of slices,
// arrays and maps, and the value of numbers. When Len is set Min and Max are
// ignored.
type Rule struct {
	Required   bool
	Type       Type
	Len        *int
	Min        *float64
	Max        *float64
	Pattern    *regexp.Regexp
	Enum       []any
	Whitespace bool
	Message    string
	Target     Target
	Transform  func(any) any
	Validator  ValidatorFunc
}

// Applies reports whether the rule runs for an event of the given kind.
func (r Rule) Applies(event Target) bool {
	return r.Target == TargetAny || r.Target == event
}

// On returns a copy of r restricted to the given event.
func (r Rule) On(target Target) Rule {
	r.Target = target
	return r
}

// WithMessage returns a copy of r reporting msg instead of the default message.
func (r Rule) WithMessage(msg string) Rule {
	r.Message = msg
	return r
}

func (r Rule) validate() error {
	if !r.Type.valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, r.Type)
	}
	if _, err := ParseTarget(string(r.Target)); err != nil {
		return err
	}
	if r.Len != nil && *r.Len < 0 {
		return fmt.Errorf("%w: negative len", ErrInvalidRule)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: min %v greater than max %v", ErrInvalidRule, *r.Min, *r.Max)
	}
	return nil
}

func Required() Rule {
	return Rule{Required: true}
}

func OfType(t Type) Rule {
	return Rule{Type: t}
}

func Email() Rule {
	return Rule{Type: TypeEmail}
}

func URL() Rule {
	return Rule{Type: TypeURL}
}

func Length(n int) Rule {
	return Rule{Len: &n}
}

func MinLen(n int) Rule {
	min := float64(n)
	return Rule{Min: &min}
}

func MaxLen(n int) Rule {
	max := float64(n)
	return Rule{Max: &max}
}

// Between bounds a number (or a length) to [min, max].
func Between(min, max float64) Rule {
	return Rule{Min: &min, Max: &max}
}

// Matches panics if expr does not compile, like regexp.MustCompile.
func Matches(expr string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr)}
}

func OneOf(values ...any) Rule {
	return Rule{Enum: values}
}

// NotBlank rejects strings made only of whitespace.
func NotBlank() Rule {
	return Rule{Whitespace: true}
}

func Func(fn ValidatorFunc) Rule {
	return Rule{Validator: fn}
}
