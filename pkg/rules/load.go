package rules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ruleDecl is the declarative form of a Rule.
type ruleDecl struct {
	Required   bool     `yaml:"required"`
	Type       string   `yaml:"type"`
	Len        *int     `yaml:"len"`
	Min        *float64 `yaml:"min"`
	Max        *float64 `yaml:"max"`
	Pattern    string   `yaml:"pattern"`
	Enum       []any    `yaml:"enum"`
	Whitespace bool     `yaml:"whitespace"`
	Message    string   `yaml:"message"`
	Target     string   `yaml:"target"`
	Transform  []string `yaml:"transform"`
}

func (d ruleDecl) rule() (Rule, error) {
	target, err := ParseTarget(d.Target)
	if err != nil {
		return Rule{}, err
	}
	r := Rule{
		Required:   d.Required,
		Type:       Type(d.Type),
		Len:        d.Len,
		Min:        d.Min,
		Max:        d.Max,
		Enum:       d.Enum,
		Whitespace: d.Whitespace,
		Message:    d.Message,
		Target:     target,
	}
	if d.Pattern != "" {
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: pattern: %v", ErrInvalidRule, err)
		}
		r.Pattern = re
	}
	if len(d.Transform) > 0 {
		fn, err := Transforms(d.Transform...)
		if err != nil {
			return Rule{}, err
		}
		r.Transform = fn
	}
	return r, r.validate()
}

// LoadYAML decodes a RuleSet. Each field maps to a single rule or a list of
// rules.
func LoadYAML(r io.Reader) (RuleSet, error) {
	var doc map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return RuleSet{}, nil
		}
		return nil, errors.Join(ErrInvalidRuleFile, err)
	}

	set := make(RuleSet, len(doc))
	for field, node := range doc {
		var decls []ruleDecl
		switch node.Kind {
		case yaml.MappingNode:
			var d ruleDecl
			if err := node.Decode(&d); err != nil {
				return nil, errors.Join(ErrInvalidRuleFile, fmt.Errorf("field %q: %w", field, err))
			}
			decls = append(decls, d)
		case yaml.SequenceNode:
			if err := node.Decode(&decls); err != nil {
				return nil, errors.Join(ErrInvalidRuleFile, fmt.Errorf("field %q: %w", field, err))
			}
		default:
			return nil, fmt.Errorf("%w: field %q: expected a mapping or a list (line %d)", ErrInvalidRuleFile, field, node.Line)
		}

		list := make([]Rule, 0, len(decls))
		for i, d := range decls {
			rule, err := d.rule()
			if err != nil {
				return nil, errors.Join(ErrInvalidRuleFile, fmt.Errorf("field %q rule %d: %w", field, i, err))
			}
			list = append(list, rule)
		}
		set[field] = list
	}
	return set, nil
}

// LoadYAMLFile reads a RuleSet from path.
func LoadYAMLFile(path string) (RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidRuleFile, err)
	}
	defer f.Close()
	return LoadYAML(f)
}
