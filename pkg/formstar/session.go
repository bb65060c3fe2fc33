package formstar

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

type sessionKey struct{}

func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext returns the session id stored by the session middleware.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// LoggerExtractor adds the session id to records logged with a request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := SessionFromContext(ctx); id != "" {
			return logger.SessionID(id), true
		}
		return slog.Attr{}, false
	}
}

// sessions reads the session cookie, issuing a new id when it is missing or
// not a UUID.
func (h *Handler) sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(h.cookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			cookie := &http.Cookie{
				Name:     h.cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   h.secure,
				SameSite: http.SameSiteLaxMode,
			}
			if ttl := h.reg.ttl; ttl > 0 {
				cookie.MaxAge = int(ttl.Seconds())
			}
			http.SetCookie(w, cookie)
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
	})
}
