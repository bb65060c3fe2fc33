package formstar

import (
	"context"
	"encoding/json"
	"io"
	"slices"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/rules"
)

// FieldSignal is the client-side view of one field.
type FieldSignal struct {
	Value     any      `json:"value"`
	Errors    []string `json:"errors"`
	Validated bool     `json:"validated"`
}

// ModelSignals is the signal tree patched into the page for every snapshot.
type ModelSignals struct {
	Fields  map[string]FieldSignal `json:"fields"`
	Version uint64                 `json:"version"`
}

// SubmitSignals reports the outcome of a submit.
type SubmitSignals struct {
	Submitted    bool                `json:"submitted"`
	SubmitErrors map[string][]string `json:"submitErrors"`
}

// Localizer turns validation errors into display messages.
type Localizer func(rules.ValidationErrors) []string

func plainMessages(errs rules.ValidationErrors) []string {
	return errs.Messages()
}

// SignalsFor converts a model map into its signal tree with the engine's
// messages.
func SignalsFor(m form.ModelMap) ModelSignals {
	return signalsFor(m, plainMessages)
}

func signalsFor(m form.ModelMap, msgs Localizer) ModelSignals {
	out := ModelSignals{
		Fields:  make(map[string]FieldSignal, m.Len()),
		Version: m.Version(),
	}
	for _, name := range m.Names() {
		f := m.Field(name)
		out.Fields[name] = FieldSignal{
			Value:     f.Value,
			Errors:    msgs(f.Errors),
			Validated: f.Validated,
		}
	}
	return out
}

func submitSignalsFor(res form.SubmitResult, msgs Localizer) SubmitSignals {
	out := SubmitSignals{
		Submitted:    res.OK,
		SubmitErrors: make(map[string][]string, len(res.Errors)),
	}
	for name, errs := range res.Errors {
		out.SubmitErrors[name] = msgs(errs)
	}
	return out
}

// ErrorsID is the element id holding the error list of a field.
func ErrorsID(field string) string {
	return "errors-" + field
}

// FieldErrors renders the error list of a field. The element is always
// rendered, empty when there are no messages, so it can be patched by id.
func FieldErrors(field string, messages []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ul id="`+templ.EscapeString(ErrorsID(field))+`" class="field-errors">`); err != nil {
			return err
		}
		for _, msg := range messages {
			if _, err := io.WriteString(w, "<li>"+templ.EscapeString(msg)+"</li>"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>")
		return err
	})
}

func patchSignals(sse *datastar.ServerSentEventGenerator, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return sse.PatchSignals(data)
}

// patchModel sends the signal tree of m and the error fragments of the
// validated fields whose messages differ from sent. sent is updated in place.
func patchModel(sse *datastar.ServerSentEventGenerator, m form.ModelMap, sent map[string][]string, msgs Localizer) error {
	signals := signalsFor(m, msgs)
	if err := patchSignals(sse, signals); err != nil {
		return err
	}
	for _, name := range m.Names() {
		f := signals.Fields[name]
		if !f.Validated {
			continue
		}
		if prev, ok := sent[name]; ok && slices.Equal(prev, f.Errors) {
			continue
		}
		if err := sse.PatchElementTempl(FieldErrors(name, f.Errors)); err != nil {
			return err
		}
		sent[name] = f.Errors
	}
	return nil
}
