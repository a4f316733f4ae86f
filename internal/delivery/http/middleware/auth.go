package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "warriorhub/internal/delivery/http/helpers"
	"warriorhub/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// SetActor returns a context with the actor set. Used by auth middleware.
func SetActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the request actor. The anonymous actor is returned
// when no authentication was presented.
func ActorFromContext(ctx context.Context) domain.Actor {
	if a, ok := ctx.Value(actorKey).(domain.Actor); ok {
		return a
	}
	return domain.Anonymous
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if auth == "" || !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// actor in the request context. If the token is missing or invalid, it
// responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing or malformed authorization header")
				return
			}
			actor, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected token",
					"path", r.URL.Path, "method", r.Method, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetActor(r.Context(), actor)))
		}
	}
}

// OptionalAuth resolves the actor from a Bearer token when one is presented,
// and passes the anonymous actor otherwise. Used on public browse routes so
// handlers can still see who is asking. An invalid token is treated as
// anonymous rather than rejected.
func OptionalAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			actor := domain.Anonymous
			if token, ok := bearerToken(r); ok {
				a, err := verifier.Verify(token)
				if err != nil {
					logger.DebugContext(r.Context(), "ignoring invalid token on public route",
						"path", r.URL.Path, "err", err)
				} else {
					actor = a
				}
			}
			next(w, r.WithContext(SetActor(r.Context(), actor)))
		}
	}
}
