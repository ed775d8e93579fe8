package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dvillegas/socialnet-backend/internal/token"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// AuthCookieName is the cookie carrying the signed identity token.
const AuthCookieName = "auth"

// Auth validates the auth cookie and attaches the decoded identity claim to
// the request context. Missing, undecodable and expired tokens are all
// rejected with 401; expiry is checked here because Decode does not.
func Auth(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "authentication required")
				return
			}

			// Intermediate layers may re-serialize the cookie value with
			// surrounding quotes.
			raw := strings.Trim(cookie.Value, `"'`)

			claims, err := codec.Decode(raw)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			if claims.Expired(time.Now()) {
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims returns the identity claim attached by Auth, or nil outside an
// authenticated request.
func GetClaims(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsKey).(*token.Claims)
	return claims
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"status":"error","message":"` + message + `"}`))
}
