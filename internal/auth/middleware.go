package auth

import (
	"net/http"
	"strings"

	"texcat/internal/apperr"
)

// JWTAuth resolves the bearer token on every request and stores the
// identity in the request context.
func JWTAuth(svc *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			id, err := svc.Resolve(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				// Message only: the wrapped cause of an internal
				// error stays server-side.
				if e, ok := apperr.As(err); ok {
					http.Error(w, e.Message, e.Status())
					return
				}
				http.Error(w, "could not validate credentials", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole gates a route on the guard: any one of the given roles is
// sufficient.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := Authorize(FromContext(r.Context()), roles...); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
