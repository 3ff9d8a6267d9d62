package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/pkg/httpx"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

// LoginHandler handles the first-factor endpoint.
type LoginHandler struct {
	Flow *service.AuthenticationFlow
}

type loginRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type challengeResponse struct {
	Status           string `json:"status"`
	ChallengeType    string `json:"challengeType"`
	AuthSessionToken string `json:"authSessionToken"`
	Message          string `json:"message"`
}

// HandleLogin handles POST /login. A mid-band risk score turns the
// response into an MFA challenge instead of a token.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, httpx.NewError(http.StatusBadRequest, "invalid_request", "Malformed JSON body."))
		return
	}
	if strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Password) == "" ||
		strings.TrimSpace(req.RecaptchaToken) == "" {
		httpx.WriteError(w, httpx.NewError(http.StatusBadRequest, "invalid_request",
			"username, password and recaptchaToken are required."))
		return
	}

	meta := service.RequestMeta{
		IP:        httpx.ClientIP(r),
		UserAgent: httpx.UserAgent(r),
	}

	result, err := h.Flow.InitiateLogin(ctx, req.Username, req.Password, req.RecaptchaToken, meta)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	if result.Challenge {
		log.Info("mfa challenge issued", "username", req.Username)
		httpx.WriteJSON(w, http.StatusUnauthorized, challengeResponse{
			Status:           "CHALLENGE_REQUIRED",
			ChallengeType:    "MFA",
			AuthSessionToken: result.AuthSessionToken,
			Message:          "Additional verification required. Request a code to continue.",
		})
		return
	}

	log.Info("login succeeded", "username", result.Identity.Username)
	httpx.WriteJSON(w, http.StatusOK, result.Identity)
}
