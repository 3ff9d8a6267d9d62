package http

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/pkg/httpx"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

var otpCodePattern = regexp.MustCompile(`^\d{6}$`)

// MFAHandler handles the step-up endpoints.
type MFAHandler struct {
	Flow *service.AuthenticationFlow
}

type mfaSendRequest struct {
	AuthSessionToken string `json:"authSessionToken"`
}

type mfaVerifyRequest struct {
	AuthSessionToken string `json:"authSessionToken"`
	OTPCode          string `json:"otpCode"`
}

// HandleSend handles POST /mfa/send.
func (h *MFAHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req mfaSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, httpx.NewError(http.StatusBadRequest, "invalid_request", "Malformed JSON body."))
		return
	}
	if strings.TrimSpace(req.AuthSessionToken) == "" {
		httpx.WriteError(w, httpx.NewError(http.StatusBadRequest, "invalid_request",
			"authSessionToken is required."))
		return
	}

	meta := service.RequestMeta{
		IP:        httpx.ClientIP(r),
		UserAgent: httpx.UserAgent(r),
	}

	if err := h.Flow.SendMFACode(ctx, req.AuthSessionToken, meta); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Info("mfa code dispatched")
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "A verification code has been sent.",
	})
}

// HandleVerify handles POST /mfa/verify. The code shape is validated
// before any session state is touched.
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req mfaVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, httpx.NewError(http.StatusBadRequest, "invalid_request", "Malformed JSON body."))
		return
	}
	if strings.TrimSpace(req.AuthSessionToken) == "" {
		httpx.WriteError(w, httpx.NewError(http.StatusBadRequest, "invalid_request",
			"authSessionToken is required."))
		return
	}
	if !otpCodePattern.MatchString(req.OTPCode) {
		httpx.WriteError(w, httpx.NewError(http.StatusBadRequest, "invalid_request",
			"otpCode must be exactly 6 digits."))
		return
	}

	meta := service.RequestMeta{
		IP:        httpx.ClientIP(r),
		UserAgent: httpx.UserAgent(r),
	}

	identity, err := h.Flow.VerifyMFACode(ctx, req.AuthSessionToken, req.OTPCode, meta)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Info("mfa verification succeeded", "username", identity.Username)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, identity)
}
