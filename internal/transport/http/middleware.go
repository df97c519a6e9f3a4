package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/service"
)

type claimsKey struct{}

// RequireAuth verifies the bearer token and stores the claims on the
// request context. No token, or a bad one, stops the request here.
func RequireAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			claims, err := tokens.VerifyAccess(raw)
			if err != nil {
				writeError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles allows only the named roles past; it must sit inside
// RequireAuth so the claims are already on the context.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, r, domain.ErrForbidden)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*service.AuthClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*service.AuthClaims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
