// Package rules provides a declarative, field-oriented validation engine.
//
// A RuleSet maps a field name to an ordered list of Rule values. Each Rule
// combines a handful of declarative constraints (required, type, length or
// range bounds, pattern, enumeration, whitespace) with an optional custom
// Validator function and an optional Target restricting which input event
// ("blur" or "change") the rule applies to. Targets are ignored by the engine
// itself; callers use RuleSet.Matching to select the rules relevant to an
// event before validating.
//
// # Usage
//
//	set := rules.RuleSet{
//	    "email": {
//	        rules.Required().On(rules.TargetBlur),
//	        rules.Email(),
//	    },
//	    "password": {rules.Required(), rules.MinLen(8)},
//	}
//
//	err := rules.New().Validate(ctx, set, rules.Source{
//	    "email":    "a@example.com",
//	    "password": "secret",
//	})
//	if verrs := rules.ExtractValidationErrors(err); verrs != nil {
//	    fmt.Println(verrs.Get("password")) // [must be at least 8 characters long]
//	}
//
// Rule sets may also be declared in YAML and loaded with LoadYAML or
// LoadYAMLFile:
//
//	email:
//	  - required: true
//	    target: blur
//	  - type: email
//	password:
//	  required: true
//	  min: 8
//
// # Error Handling
//
// Validate returns nil on success, a ValidationErrors value when one or more
// rules fail, and any other error (context cancellation, a failing or
// panicking custom validator) unchanged. Use ExtractValidationErrors or
// IsValidationError to tell them apart.
//
// # Concurrency
//
// A Validator holds no mutable state and is safe for concurrent use. Custom
// validators receive the context passed to Validate and should honour its
// cancellation when they perform slow work.
package rules
