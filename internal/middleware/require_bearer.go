package middleware

import (
	"net/http"

	"backoffice-api/internal/ports/auth"
)

// RequireBearer corta con 401 si el bearer token no verifica.
// verifier == nil => sin protección (no hay token configurado).
func RequireBearer(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, err := verifier.Verify(r.Context(), token); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
