package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

// Audit reason codes written to the security journal. These are internal
// vocabulary and never appear in client responses.
const (
	reasonSuccess          = "SUCCESS"
	reasonMFARequired      = "MFA_REQUIRED"
	reasonFullLoginSuccess = "FULL_LOGIN_SUCCESS"
	reasonInvalidCreds     = "INVALID_CREDENTIALS"
	reasonRiskBlocked      = "BLOCKED_BY_RISK_SCORE"
	reasonSessionExpired   = "MFA_SESSION_EXPIRED"
	reasonVerifyExpired    = "MFA_VERIFY_EXPIRED"
	reasonOTPSendFailed    = "OTP_SEND_FAILED"
	reasonOTPSent          = "OTP_SENT_SUCCESSFULLY"
	reasonOTPVerifyFailed  = "OTP_VERIFICATION_FAILED"
)

const unknownUsername = "UNKNOWN/EXPIRED"

const riskActionLogin = "LOGIN"

// RequestMeta carries the caller context the flow needs for rate limiting
// and auditing.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// LoginResult is the outcome of a first-factor attempt: either a complete
// identity or an MFA challenge carrying the session token the client must
// present to continue.
type LoginResult struct {
	Challenge        bool
	AuthSessionToken string
	Identity         *domain.Identity
}

// AuthenticationFlow orchestrates the full login sequence. The order is
// fixed: rate limit gate, risk assessment, credential verification, then
// either direct token issuance or the MFA step up. Every terminal outcome
// is written to the security journal.
type AuthenticationFlow struct {
	Login       *LoginService
	Tokens      *TokenService
	RateLimiter *RateLimiter
	Risk        *RiskEvaluator
	Sessions    *MFASessionService
	SecurityLog *SecurityLogger
}

// InitiateLogin runs the first factor. A blocked IP fails before any work
// is done; a risk verdict of block is logged but surfaces as a plain
// credential error so an attacker learns nothing from the response.
func (f *AuthenticationFlow) InitiateLogin(ctx context.Context, username, password, riskToken string, meta RequestMeta) (*LoginResult, error) {
	if err := f.RateLimiter.CheckIPBlocked(ctx, meta.IP); err != nil {
		return nil, err
	}

	verdict, err := f.Risk.Evaluate(ctx, riskToken, riskActionLogin)
	if err != nil {
		return nil, err
	}

	audit := AttemptMeta{IPAddress: meta.IP, UserAgent: meta.UserAgent}

	if verdict.Action == domain.RiskActionBlock {
		f.SecurityLog.LogFailure(ctx, username, reasonRiskBlocked, audit)
		slogx.FromContext(ctx).Warn("login blocked by risk score",
			"username", username,
			"score", verdict.Score,
		)
		return nil, ErrRiskBlocked
	}

	user, err := f.Login.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			f.recordFailure(ctx, meta.IP)
			f.SecurityLog.LogFailure(ctx, username, reasonInvalidCreds, audit)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if verdict.Action == domain.RiskActionMFARequired {
		// The step up counts against the IP's failure budget until the
		// second factor completes.
		f.recordFailure(ctx, meta.IP)

		token, err := f.Sessions.CreateSession(ctx, user.Username, user.Privilege)
		if err != nil {
			return nil, err
		}

		audit.AuthSessionToken = token
		f.SecurityLog.LogSuccess(ctx, user.Username, reasonMFARequired, audit)
		return &LoginResult{Challenge: true, AuthSessionToken: token}, nil
	}

	jwtToken, err := f.Tokens.CreateToken(ctx, user.Username, user.Privilege)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	f.SecurityLog.LogSuccess(ctx, user.Username, reasonSuccess, audit)
	return &LoginResult{
		Identity: &domain.Identity{
			Username:  user.Username,
			Privilege: user.Privilege,
			Token:     jwtToken,
		},
	}, nil
}

// SendMFACode dispatches a one-time code for a pending challenge. Sessions
// that have already passed verification cannot request another code.
func (f *AuthenticationFlow) SendMFACode(ctx context.Context, authSessionToken string, meta RequestMeta) error {
	audit := AttemptMeta{IPAddress: meta.IP, UserAgent: meta.UserAgent, AuthSessionToken: authSessionToken}

	session, err := f.Sessions.GetSession(ctx, authSessionToken)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) {
			f.SecurityLog.LogFailure(ctx, unknownUsername, reasonSessionExpired, audit)
		}
		return err
	}
	if session.Validated {
		return ErrSessionCompleted
	}

	if err := f.Sessions.TriggerOTPSend(ctx, authSessionToken, session); err != nil {
		f.SecurityLog.LogFailure(ctx, session.Username, reasonOTPSendFailed, audit)
		if errors.Is(err, ErrMissingContactInfo) {
			return ErrMissingContactInfo
		}
		slogx.FromContext(ctx).Error("otp dispatch failed", "err", err)
		return fmt.Errorf("%w: %w", ErrOTPDispatchFailed, err)
	}

	f.SecurityLog.LogSuccess(ctx, session.Username, reasonOTPSent, audit)
	return nil
}

// VerifyMFACode completes the second factor. On success the session is
// consumed and a full access token issued.
func (f *AuthenticationFlow) VerifyMFACode(ctx context.Context, authSessionToken, otpCode string, meta RequestMeta) (*domain.Identity, error) {
	audit := AttemptMeta{IPAddress: meta.IP, UserAgent: meta.UserAgent, AuthSessionToken: authSessionToken}

	session, err := f.Sessions.VerifyOTPCode(ctx, authSessionToken, otpCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSession):
			f.SecurityLog.LogFailure(ctx, unknownUsername, reasonVerifyExpired, audit)
		case errors.Is(err, ErrExpiredCode), errors.Is(err, ErrInvalidCode):
			f.SecurityLog.LogFailure(ctx, unknownUsername, reasonOTPVerifyFailed, audit)
		}
		return nil, err
	}

	if err := f.Sessions.DeleteSession(ctx, authSessionToken); err != nil {
		slogx.FromContext(ctx).Error("failed to delete consumed mfa session", "err", err)
	}

	jwtToken, err := f.Tokens.CreateToken(ctx, session.Username, session.Privilege)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	f.SecurityLog.LogSuccess(ctx, session.Username, reasonFullLoginSuccess, audit)
	return &domain.Identity{
		Username:  session.Username,
		Privilege: session.Privilege,
		Token:     jwtToken,
	}, nil
}

func (f *AuthenticationFlow) recordFailure(ctx context.Context, ip string) {
	if err := f.RateLimiter.RecordFailure(ctx, ip); err != nil {
		slogx.FromContext(ctx).Error("failed to record rate limit failure", "err", err)
	}
}
