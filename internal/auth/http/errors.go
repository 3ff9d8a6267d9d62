package http

import (
	"errors"
	"net/http"

	"github.com/mcitys/mcitys-api/internal/auth/service"
	"github.com/mcitys/mcitys-api/pkg/httpx"
)

// Client-facing messages. Credential and risk-block failures share one
// message so callers cannot tell them apart; all MFA verification
// failures share another for the same reason.
const (
	msgWrongCredentials = "Wrong username or password."
	msgMFAFailed        = "Invalid or expired authentication session or code."
	msgTooManyAttempts  = "Too many failed attempts. Please try again later."
)

// writeServiceError maps service sentinels onto transport errors. Anything
// unrecognized becomes a redacted 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTooManyAttempts):
		httpx.WriteError(w, httpx.NewError(http.StatusTooManyRequests, "too_many_attempts", msgTooManyAttempts))
	case errors.Is(err, service.ErrRiskBlocked):
		httpx.WriteError(w, httpx.NewError(http.StatusForbidden, "authentication_failed", msgWrongCredentials))
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, httpx.NewError(http.StatusUnauthorized, "authentication_failed", msgWrongCredentials))
	case errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, service.ErrExpiredCode),
		errors.Is(err, service.ErrInvalidCode):
		httpx.WriteError(w, httpx.NewError(http.StatusUnauthorized, "mfa_failed", msgMFAFailed))
	case errors.Is(err, service.ErrSessionCompleted):
		httpx.WriteError(w, httpx.NewError(http.StatusConflict, "session_completed",
			"This authentication session has already been completed."))
	case errors.Is(err, service.ErrMissingContactInfo):
		httpx.WriteError(w, httpx.NewError(http.StatusForbidden, "missing_contact_info",
			"No phone number is registered for this account."))
	default:
		httpx.HandleError(w, err)
	}
}
