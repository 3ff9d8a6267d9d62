package http

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mcitys/mcitys-api/internal/auth/cache"
	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/pkg/httpx"
)

func newMiddlewareTokens(t *testing.T) *service.TokenService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return &service.TokenService{
		PrivateKey:  key,
		PublicKey:   &key.PublicKey,
		Revocations: cache.NewRevocationList(client),
		TTL:         time.Hour,
	}
}

func protectedEcho(t *testing.T, tokens *service.TokenService, guards ...httpx.Middleware) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"username": claims.Username})
	})

	mws := append([]httpx.Middleware{AuthnMiddleware(tokens)}, guards...)
	return httpx.Chain(inner, mws...)
}

func TestAuthnMiddleware(t *testing.T) {
	tokens := newMiddlewareTokens(t)
	handler := protectedEcho(t, tokens)

	token, err := tokens.CreateToken(t.Context(), "alice", domain.PrivilegeClient)
	require.NoError(t, err)

	t.Run("valid token passes claims through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "alice")
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, tokens.RevokeToken(t.Context(), token))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePrivilege(t *testing.T) {
	tokens := newMiddlewareTokens(t)
	handler := protectedEcho(t, tokens, RequirePrivilege(domain.PrivilegeAdmin, domain.PrivilegeArtist))

	t.Run("allowed rank", func(t *testing.T) {
		token, err := tokens.CreateToken(t.Context(), "alice", domain.PrivilegeAdmin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("excluded rank", func(t *testing.T) {
		token, err := tokens.CreateToken(t.Context(), "bob", domain.PrivilegeClient)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
