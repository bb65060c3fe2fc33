// Package formstar hosts form controllers behind datastar server-sent events.
//
// A Registry keeps one form.Controller per browser session, created on first
// use by a Factory and closed after an idle TTL. Handler.Routes exposes three
// endpoints:
//
//	GET  /stream   streams every model map as a signal patch
//	               ({fields: {name: {value, errors, validated}}, version}) plus
//	               an error list fragment (<ul id="errors-NAME">) per changed field
//	POST /event    dispatches a blur or change read from the signals
//	               {event, name, value} and answers with the current signals
//	POST /submit   submits the form and answers with {submitted, submitErrors}
//
// The session is identified by a UUID cookie set on the first request.
//
//	reg, err := formstar.NewRegistry(func(ctx context.Context, _ string) (*form.Controller, error) {
//	    return form.New(form.State{"email": ""}, set, onSuccess)
//	}, cfg.RegistryOptions()...)
//	if err != nil {
//	    return err
//	}
//	defer reg.Close()
//
//	r := chi.NewRouter()
//	r.Mount("/form", formstar.NewHandler(reg, cfg.HandlerOptions()...).Routes())
package formstar
