package httpx

import (
	"context"
	"net/http"
)

// CredentialChecker validates a username/password pair and returns the
// user's role. It reports ok=false for unknown users and bad passwords
// alike, so callers cannot distinguish the two.
type CredentialChecker interface {
	Authenticate(ctx context.Context, username, password string) (role string, ok bool, err error)
}

// BasicAuthMiddleware guards a handler with stateless HTTP Basic auth.
// Credentials are checked on every request against the user store; no
// session or cookie is ever issued. Failures get a 401 with a challenge
// header.
func BasicAuthMiddleware(checker CredentialChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				challenge(w)
				return
			}

			role, ok, err := checker.Authenticate(r.Context(), username, password)
			if err != nil {
				Error(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !ok {
				challenge(w)
				return
			}

			ctx := ContextWithUser(r.Context(), username, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="library"`)
	Error(w, http.StatusUnauthorized, "unauthorized")
}
