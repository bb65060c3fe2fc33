package rules

import (
	"fmt"
	"slices"
	"sort"
)

// RuleSet maps a field name to its ordered rules.
type RuleSet map[string][]Rule

// Fields returns the field names in sorted order.
func (s RuleSet) Fields() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy whose rule slices are not shared with s.
func (s RuleSet) Clone() RuleSet {
	if s == nil {
		return RuleSet{}
	}
	out := make(RuleSet, len(s))
	for name, list := range s {
		out[name] = slices.Clone(list)
	}
	return out
}

// Matching returns the rules of field that apply to event, or nil.
func (s RuleSet) Matching(field string, event Target) []Rule {
	var out []Rule
	for _, r := range s[field] {
		if r.Applies(event) {
			out = append(out, r)
		}
	}
	return out
}

// Triggers reports whether an event on field should run validation.
func (s RuleSet) Triggers(field string, event Target) bool {
	for _, r := range s[field] {
		if r.Applies(event) {
			return true
		}
	}
	return false
}

// Only returns the subset of s covering the given fields.
func (s RuleSet) Only(fields ...string) RuleSet {
	out := make(RuleSet, len(fields))
	for _, name := range fields {
		if list, ok := s[name]; ok {
			out[name] = list
		}
	}
	return out
}

// Validate checks every rule declaration.
func (s RuleSet) Validate() error {
	for _, name := range s.Fields() {
		for i, r := range s[name] {
			if err := r.validate(); err != nil {
				return fmt.Errorf("field %q rule %d: %w", name, i, err)
			}
		}
	}
	return nil
}
