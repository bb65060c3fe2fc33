package i18n

import (
	"net/http"
	"strings"
)

type middlewareConfig struct {
	cookieName string
	queryParam string
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithCookieName sets the cookie holding an explicit language choice.
// An empty name disables the cookie source.
func WithCookieName(name string) MiddlewareOption {
	return func(c *middlewareConfig) { c.cookieName = name }
}

// WithQueryParam sets the query parameter holding an explicit language
// choice. An empty name disables the query source.
func WithQueryParam(name string) MiddlewareOption {
	return func(c *middlewareConfig) { c.queryParam = name }
}

// Middleware stores the best loaded language for the request in its context.
// Sources in priority order: query parameter, cookie, Accept-Language.
func Middleware(t *Translator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{cookieName: "lang", queryParam: "lang"}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var prefs []string
			if cfg.queryParam != "" {
				prefs = append(prefs, strings.TrimSpace(r.URL.Query().Get(cfg.queryParam)))
			}
			if cfg.cookieName != "" {
				if c, err := r.Cookie(cfg.cookieName); err == nil {
					prefs = append(prefs, strings.TrimSpace(c.Value))
				}
			}
			prefs = append(prefs, r.Header.Get("Accept-Language"))

			lang := t.DefaultLanguage()
			for _, p := range prefs {
				if p == "" {
					continue
				}
				lang = t.Match(p)
				break
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
