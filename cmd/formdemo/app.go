package main

import (
	"bytes"
	"context"
	"embed"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formstar"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/rules"
)

//go:embed rules.yaml
var defaultRules []byte

//go:embed index.html
var indexPage []byte

//go:embed locales
var locales embed.FS

// loadRules reads the rule file, or the embedded signup rules when path is empty.
func loadRules(path string) (rules.RuleSet, error) {
	if path == "" {
		return rules.LoadYAML(bytes.NewReader(defaultRules))
	}
	return rules.LoadYAMLFile(path)
}

func newTranslator(log *slog.Logger) (*i18n.Translator, error) {
	trees, err := i18n.LoadFS(locales, "locales")
	if err != nil {
		return nil, err
	}
	return i18n.New(trees, i18n.WithLogger(log))
}

// newFactory builds one controller per session with every ruled field
// starting empty.
func newFactory(set rules.RuleSet, cfg form.Config, store *signups, log *slog.Logger) formstar.Factory {
	return func(ctx context.Context, sessionID string) (*form.Controller, error) {
		initial := make(form.State, len(set))
		for _, name := range set.Fields() {
			initial[name] = ""
		}
		sessionLog := log.With(logger.SessionID(sessionID))

		return form.New(initial, set,
			func(s form.State) {
				rec, err := store.add(s)
				if err != nil {
					sessionLog.Error("signup not stored", logger.Error(err))
					return
				}
				sessionLog.Info("signup accepted",
					slog.String("email", rec.Email),
					slog.String("plan", rec.Plan),
				)
			},
			form.WithFailure(func(errs map[string]rules.ValidationErrors) {
				sessionLog.Debug("signup rejected", logger.ErrorCount(len(errs)))
			}),
			form.WithConfig(cfg),
			form.WithLogger(sessionLog),
		)
	}
}

func newRouter(h *formstar.Handler, tr *i18n.Translator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(i18n.Middleware(tr))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexPage)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	})
	r.Mount("/form", h.Routes())
	return r
}
