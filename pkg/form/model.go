package form

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/formkit/pkg/rules"
)

// FieldModel is the per-field handle handed to input widgets. It is a
// snapshot: Value and Errors do not change after it has been built.
type FieldModel struct {
	Name  string
	Value any
	// Errors holds the latest validation errors; nil until the field has
	// been validated on blur or change.
	Errors rules.ValidationErrors
	// Validated reports whether a blur or change validation has completed.
	Validated bool

	ctrl *Controller
}

func (f FieldModel) HasErrors() bool {
	return len(f.Errors) > 0
}

// Dispatch raises a blur or change event for this field.
func (f FieldModel) Dispatch(ctx context.Context, kind EventKind, value any) error {
	if f.ctrl == nil {
		return ErrDetached
	}
	if !kind.isInput() {
		return fmt.Errorf("%w: %q is not a field event", ErrUnknownEvent, kind)
	}
	return f.ctrl.Dispatch(ctx, Event{Kind: kind, Name: f.Name, Value: value})
}

func (f FieldModel) Blur(ctx context.Context, value any) error {
	return f.Dispatch(ctx, EventBlur, value)
}

func (f FieldModel) Change(ctx context.Context, value any) error {
	return f.Dispatch(ctx, EventChange, value)
}

// ModelMap is the snapshot of every field published after each change of
// FormState or ErrorState.
type ModelMap struct {
	version uint64
	fields  map[string]FieldModel
	errs    ErrorState
}

func newModelMap(c *Controller, version uint64, state State, errs ErrorState) ModelMap {
	fields := make(map[string]FieldModel, len(state))
	for name, value := range state {
		fe, ok := errs.Lookup(name)
		fields[name] = FieldModel{
			Name:      name,
			Value:     value,
			Errors:    fe,
			Validated: ok,
			ctrl:      c,
		}
	}
	return ModelMap{version: version, fields: fields, errs: errs}
}

// Version increases by one with every published snapshot.
func (m ModelMap) Version() uint64 {
	return m.version
}

func (m ModelMap) Get(name string) (FieldModel, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// Field returns the model of name, or a detached zero model.
func (m ModelMap) Field(name string) FieldModel {
	return m.fields[name]
}

func (m ModelMap) Len() int {
	return len(m.fields)
}

// Names returns the field names in sorted order.
func (m ModelMap) Names() []string {
	return slices.Sorted(maps.Keys(m.fields))
}

// Values returns the FormState captured by this snapshot.
func (m ModelMap) Values() State {
	out := make(State, len(m.fields))
	for name, f := range m.fields {
		out[name] = f.Value
	}
	return out
}

// ErrorState returns the ErrorState captured by this snapshot.
func (m ModelMap) ErrorState() ErrorState {
	return m.errs
}
