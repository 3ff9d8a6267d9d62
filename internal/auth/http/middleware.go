package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/pkg/httpx"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

type ctxKey int

const claimsKey ctxKey = iota

// ClaimsFromContext returns the verified token claims injected by
// AuthnMiddleware.
func ClaimsFromContext(ctx context.Context) (*domain.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domain.TokenClaims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// AuthnMiddleware verifies the bearer token, including its revocation
// status, and injects the claims into the request context.
func AuthnMiddleware(tokens *service.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httpx.WriteError(w, httpx.NewError(http.StatusUnauthorized, "invalid_token",
					"A bearer token is required."))
				return
			}

			claims, err := tokens.VerifyToken(r.Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenRevoked) {
					httpx.WriteError(w, httpx.NewError(http.StatusUnauthorized, "invalid_token",
						"Invalid or expired token."))
					return
				}
				slogx.FromContext(r.Context()).Error("token verification failed", "err", err)
				httpx.WriteError(w, httpx.NewInternalError("server_error", err.Error()))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePrivilege rejects authenticated requests whose privilege rank is
// not in the allowed set. It must run after AuthnMiddleware.
func RequirePrivilege(allowed ...domain.Privilege) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, httpx.NewError(http.StatusUnauthorized, "invalid_token",
					"A bearer token is required."))
				return
			}
			for _, p := range allowed {
				if claims.Privilege == p {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.WriteError(w, httpx.NewError(http.StatusForbidden, "insufficient_privilege",
				"Your account does not have access to this resource."))
		})
	}
}
