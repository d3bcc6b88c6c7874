package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/bandolera/internal/apperror"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the authenticated user value.
type contextKey string

const userKey contextKey = "user"

// RequireAuth enforces bearer-token authentication on protected routes.
//
// It reads "Authorization: Bearer <token>", verifies the token, and stores
// the embedded UserClaim in the request context. A missing or invalid token
// short-circuits with 401 before any handler (and therefore any store access)
// runs. The 401 body is identical for every failure mode.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claim, err := extractClaim(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Unauthorized"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claim)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user set by RequireAuth.
// Returns (nil, false) if the request never passed through the middleware.
func UserFromContext(ctx context.Context) (*UserClaim, bool) {
	claim, ok := ctx.Value(userKey).(*UserClaim)
	return claim, ok && claim != nil
}

// extractClaim pulls the bearer token out of the Authorization header and
// verifies it.
func extractClaim(r *http.Request, tokens *TokenService) (*UserClaim, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, apperror.Unauthorized()
	}

	return tokens.Verify(strings.TrimSpace(token))
}
