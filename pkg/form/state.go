package form

import (
	"maps"
	"slices"

	"github.com/dmitrymomot/formkit/pkg/rules"
)

// State maps a field name to its current value.
type State map[string]any

// Clone returns a shallow copy. Values themselves are not copied.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	return maps.Clone(s)
}

// Names returns the field names in sorted order.
func (s State) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// ErrorState is an immutable snapshot of the latest validation errors per
// field. A field has an entry only once a blur or change validation for it has
// completed; an entry with no errors means the field passed.
type ErrorState struct {
	m map[string]rules.ValidationErrors
}

// Lookup returns the errors of name and whether the field has been validated.
func (e ErrorState) Lookup(name string) (rules.ValidationErrors, bool) {
	errs, ok := e.m[name]
	return errs, ok
}

func (e ErrorState) Get(name string) rules.ValidationErrors {
	return e.m[name]
}

func (e ErrorState) Has(name string) bool {
	_, ok := e.m[name]
	return ok
}

func (e ErrorState) Len() int {
	return len(e.m)
}

// Map returns a copy of the entries.
func (e ErrorState) Map() map[string]rules.ValidationErrors {
	out := make(map[string]rules.ValidationErrors, len(e.m))
	for name, errs := range e.m {
		out[name] = slices.Clone(errs)
	}
	return out
}

// with derives a new snapshot replacing the entry for name.
func (e ErrorState) with(name string, errs rules.ValidationErrors) ErrorState {
	next := make(map[string]rules.ValidationErrors, len(e.m)+1)
	maps.Copy(next, e.m)
	if errs == nil {
		errs = rules.ValidationErrors{}
	}
	next[name] = errs
	return ErrorState{m: next}
}
