package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mrops-br/moka-storefront/internal/app/session"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/http/response"
	"github.com/mrops-br/moka-storefront/internal/infrastructure/telemetry"
)

type sessionKey struct{}

// SessionFromContext returns the shopper session attached by Sessions.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Sessions resolves the shopper session from the cookie, creating one on first visit.
func Sessions(registry *session.Registry, cookieName string, maxAge time.Duration, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookieName); err == nil {
				id = c.Value
			}

			sess, created, err := registry.Get(r.Context(), id)
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to start session",
					slog.String("error", err.Error()),
				)
				response.Error(w, http.StatusServiceUnavailable, err)
				return
			}

			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   int(maxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSession(r.Context(), sess)
			ctx = telemetry.WithSessionID(ctx, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
