// Package form binds a set of named form fields to a declarative rules engine.
//
// A Controller owns the FormState (field name to current value) and the
// ErrorState (field name to the latest validation errors) of one form. The
// host UI reads per-field handles from the current ModelMap, raises blur and
// change events through them, and triggers a whole-form submit.
//
// # Event processing
//
// A blur or change event replaces the field's value immediately: once
// Dispatch returns, Models reflects the new value. If any rule of the field
// has no target or targets the event kind, the engine is then called with a
// source holding only that field and the matching rules. When the call
// completes, the field's ErrorState entry is replaced by the reported errors
// (an empty list when the field passed). Other fields are never touched.
//
//	ctrl, err := form.New(
//	    form.State{"email": ""},
//	    rules.RuleSet{"email": {rules.Required().On(rules.TargetBlur), rules.Email()}},
//	    func(s form.State) { save(s) },
//	    form.WithFailure(func(errs map[string]rules.ValidationErrors) { report(errs) }),
//	)
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Close()
//
//	email := ctrl.Models().Field("email")
//	_ = email.Change(ctx, "a")  // value updated, email rule runs on change
//	_ = email.Blur(ctx, "a")    // value updated, both rules run
//	ctrl.Submit()
//
// # Submit
//
// Submit validates the whole FormState against the whole RuleSet; rule
// targets are ignored. On success the success callback receives the validated
// state; on failure the failure callback, when one was given, receives the
// errors grouped by field. Without a failure callback a failed submit has no
// observable effect. Submit never changes FormState and never writes
// ErrorState: only blur and change validations populate ErrorState.
// SubmitResult returns the same outcome as an async.Future for callers that
// prefer a value over callbacks.
//
// # Concurrency
//
// Every state change is applied by a single loop goroutine, fed through a
// command queue. Engine calls run on their own goroutines and report back to
// the loop, so no locks guard FormState or ErrorState. Each change publishes a
// new immutable ModelMap, readable through Models or streamed through Watch.
//
// Validations of one field may overlap. With PolicyLastCompleted (the
// default) none is cancelled and the last one to complete wins, which may not
// be the last one dispatched. PolicyLatestDispatched cancels the earlier call
// and ignores any stale result.
//
// # Unknown fields
//
// With AdmitClosed (the default) the field set is fixed by the initial state:
// events for other names fail with ErrUnknownField and rules for other names
// fail construction with ErrRuleWithoutField. AdmitOpen adds a field on its
// first event.
//
// # Configuration
//
// Config carries the controller settings in FORM_* environment variables and
// is applied with WithConfig:
//
//	cfg, err := form.LoadConfig()
//	ctrl, err := form.New(initial, set, onSuccess, form.WithConfig(cfg))
package form
