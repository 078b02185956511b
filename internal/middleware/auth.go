package middleware

import (
	"log/slog"
	"net/http"

	"github.com/noahform/intake/internal/auth"
	"github.com/noahform/intake/internal/model"
	"github.com/noahform/intake/internal/token"
)

const (
	msgTokenRequired = "Token vereist"
	msgTokenInvalid  = "Ongeldige of verlopen token"
)

// TokenVerifier is satisfied by *token.Issuer.
type TokenVerifier interface {
	Verify(raw string) (model.Identity, error)
}

// RequireAuth verifies the bearer token and stores the identity on the
// request context. Requests without a valid token stop here with a 401.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := token.ExtractToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, msgTokenRequired)
				return
			}

			id, err := verifier.Verify(raw)
			if err != nil {
				logger.Debug("token rejected", "error", err, "remote", RealIP(r))
				writeError(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the authenticated user has the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "Geen toegang")
			return
		}
		next.ServeHTTP(w, r)
	})
}
