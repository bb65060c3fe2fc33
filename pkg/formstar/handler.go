package formstar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/rules"
)

// Handler serves the datastar endpoints of the form sessions held by a
// Registry.
type Handler struct {
	reg           *Registry
	log           *slog.Logger
	cookieName    string
	secure        bool
	submitTimeout time.Duration
	tr            Translator
}

// Translator resolves a translation key with parameters in a language.
// *i18n.Translator implements it.
type Translator interface {
	Translate(lang, key string, params map[string]any) (string, bool)
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

func WithCookieName(name string) HandlerOption {
	return func(h *Handler) {
		if name != "" {
			h.cookieName = name
		}
	}
}

func WithSecureCookie(secure bool) HandlerOption {
	return func(h *Handler) { h.secure = secure }
}

// WithSubmitTimeout bounds how long the submit endpoint waits for a result.
func WithSubmitTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.submitTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithTranslator localizes validation messages into the request locale
// stored by i18n.Middleware. Errors without a translation keep the engine's
// message.
func WithTranslator(t Translator) HandlerOption {
	return func(h *Handler) { h.tr = t }
}

// HandlerOptions returns the handler options described by c.
func (c Config) HandlerOptions() []HandlerOption {
	return []HandlerOption{
		WithCookieName(c.CookieName),
		WithSecureCookie(c.SecureCookie),
		WithSubmitTimeout(c.SubmitTimeout),
	}
}

// RegistryOptions returns the registry options described by c.
func (c Config) RegistryOptions() []RegistryOption {
	return []RegistryOption{
		WithIdleTTL(c.IdleTTL),
		WithCleanupInterval(c.CleanupInterval),
	}
}

func NewHandler(reg *Registry, opts ...HandlerOption) *Handler {
	h := &Handler{
		reg:           reg,
		log:           slog.Default(),
		cookieName:    defaultCookieName,
		submitTimeout: defaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("formstar"))
	return h
}

// Routes returns the adapter endpoints:
//
//	GET  /stream  model map snapshots as signal patches and error fragments
//	POST /event   blur or change from signals {event, name, value}
//	POST /submit  submit, answered with signals {submitted, submitErrors}
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.sessions)
	r.Get("/stream", h.stream)
	r.Post("/event", h.event)
	r.Post("/submit", h.submit)
	return r
}

type eventSignals struct {
	Event string `json:"event"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := SessionFromContext(ctx)
	ctrl, err := h.reg.Get(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sent := make(map[string][]string)
	msgs := h.localizer(ctx)
	for m := range ctrl.Watch(ctx) {
		h.reg.Touch(id)
		if err := patchModel(sse, m, sent, msgs); err != nil {
			h.log.DebugContext(ctx, "stream closed", logger.Error(err))
			return
		}
	}
}

func (h *Handler) event(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctrl, err := h.reg.Get(ctx, SessionFromContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var sig eventSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.fail(w, r, errors.Join(ErrInvalidSignals, err))
		return
	}
	kind, err := form.ParseEventKind(sig.Event)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := ctrl.Dispatch(ctx, form.Event{Kind: kind, Name: sig.Name, Value: sig.Value}); err != nil {
		h.fail(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := patchSignals(sse, signalsFor(ctrl.Models(), h.localizer(ctx))); err != nil {
		h.log.DebugContext(ctx, "event response not delivered", logger.Error(err))
	}
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.submitTimeout)
	defer cancel()

	ctrl, err := h.reg.Get(ctx, SessionFromContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := ctrl.SubmitResult(ctx).Await(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.log.InfoContext(ctx, "form submitted",
		logger.FormID(ctrl.ID()),
		slog.Bool("ok", res.OK),
		logger.ErrorCount(len(res.Errors)),
	)

	sse := datastar.NewSSE(w, r)
	if err := patchSignals(sse, submitSignalsFor(res, h.localizer(ctx))); err != nil {
		h.log.DebugContext(ctx, "submit response not delivered", logger.Error(err))
	}
}

func (h *Handler) localizer(ctx context.Context) Localizer {
	if h.tr == nil {
		return plainMessages
	}
	lang := i18n.GetLocale(ctx)
	return func(errs rules.ValidationErrors) []string {
		out := errs.Messages()
		for i, e := range errs {
			if s, ok := h.tr.Translate(lang, e.TranslationKey, e.TranslationValues); ok {
				out[i] = s
			}
		}
		return out
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSignals),
		errors.Is(err, ErrNoSession),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrUnknownEvent):
		return http.StatusBadRequest
	case errors.Is(err, form.ErrClosed), errors.Is(err, ErrRegistryClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.log.Log(r.Context(), level, "request failed",
		logger.Error(err),
		slog.Int("status", status),
		slog.String("path", r.URL.Path),
	)
	http.Error(w, http.StatusText(status), status)
}
