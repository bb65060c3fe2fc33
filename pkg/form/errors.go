package form

import "errors"

var (
	// ErrEmptyState is returned by New when the initial state has no fields.
	ErrEmptyState = errors.New("form: initial state has no fields")

	// ErrNilCallback is returned by New when the success callback is nil.
	ErrNilCallback = errors.New("form: success callback is required")

	// ErrRuleWithoutField is returned by New when a rule names a field that is
	// not part of a closed field set.
	ErrRuleWithoutField = errors.New("form: rule for unknown field")

	// ErrUnknownField is returned when an event names a field outside a
	// closed field set.
	ErrUnknownField = errors.New("form: unknown field")

	// ErrUnknownEvent is returned for an event kind the receiver cannot handle.
	ErrUnknownEvent = errors.New("form: unknown event")

	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("form: controller is closed")

	// ErrDetached is returned when dispatching through a zero FieldModel.
	ErrDetached = errors.New("form: field model is not bound to a controller")

	// ErrInvalidOption is returned by New for an invalid option value.
	ErrInvalidOption = errors.New("form: invalid option")
)
