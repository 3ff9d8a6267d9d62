package service

import "errors"

// Sentinel errors returned by the auth services. The HTTP layer maps these
// to status codes and client-safe messages; credential and MFA failures
// must stay indistinguishable from one another in the response.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTooManyAttempts    = errors.New("too_many_attempts")
	ErrRiskBlocked        = errors.New("risk_blocked")

	ErrInvalidSession   = errors.New("invalid_mfa_session")
	ErrSessionCompleted = errors.New("mfa_session_completed")
	ErrInvalidCode      = errors.New("invalid_otp_code")
	ErrExpiredCode      = errors.New("expired_otp_code")

	ErrMissingContactInfo = errors.New("missing_contact_info")
	ErrOTPDispatchFailed  = errors.New("otp_dispatch_failed")

	ErrInvalidToken     = errors.New("invalid_token")
	ErrTokenRevoked     = errors.New("token_revoked")
	ErrKeyNotConfigured = errors.New("signing_key_not_configured")
)
