package http

import (
	"net/http"

	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/pkg/httpx"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

// SessionHandler covers the endpoints a token holder uses to inspect and
// end their session.
type SessionHandler struct {
	Tokens *service.TokenService
}

// HandleLogout handles POST /logout. Revocation is best effort: a missing
// or garbage token still yields 200, there is nothing useful to tell the
// caller about a token that was never valid.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if raw := bearerToken(r); raw != "" {
		if err := h.Tokens.RevokeToken(ctx, raw); err != nil {
			slogx.FromContext(ctx).Error("token revocation failed", "err", err)
		}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

// HandleMe handles GET /me. AuthnMiddleware has already verified the
// token and stashed the claims.
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, httpx.NewError(http.StatusUnauthorized, "invalid_token",
			"A bearer token is required."))
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"username":  claims.Username,
		"privilege": string(claims.Privilege),
	})
}
