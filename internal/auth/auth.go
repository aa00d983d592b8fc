// Package auth provides token authentication, role gating, and the
// role-based dashboard dispatch.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zeronista/retailops/internal/model"
	"github.com/zeronista/retailops/internal/store"
)

type contextKey string

const userKey contextKey = "auth_user"

// UserFrom extracts the authenticated user from the request context.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

// WithUser returns a context carrying the given user. Exposed for
// handler tests.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Middleware resolves the request's API token to a user via the store.
// Requests without a valid token proceed unauthenticated; role-gated
// routes reject them downstream.
type Middleware struct {
	store store.Store
	log   zerolog.Logger
}

func NewMiddleware(st store.Store, log zerolog.Logger) *Middleware {
	return &Middleware{
		store: st,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

// Authenticate attaches the user for a recognized token to the request
// context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFrom(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.store.UserByToken(r.Context(), token)
		if err != nil {
			if err != store.ErrNotFound {
				m.log.Error().Err(err).Msg("Token lookup failed")
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAnyRole gates a route on the caller holding at least one of
// the given roles. Unauthenticated callers get 401, authenticated but
// unauthorized callers get 403.
func RequireAnyRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if user.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "insufficient role")
		})
	}
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.Header.Get("X-API-Token")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
