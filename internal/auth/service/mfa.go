package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcitys/mcitys-api/internal/auth/cache"
	"github.com/mcitys/mcitys-api/internal/auth/domain"
)

// MFASessionService manages the step-up session lifecycle: created after a
// successful first factor, charged with a one-time code on demand, and
// consumed exactly once by a successful verification.
type MFASessionService struct {
	Sessions *cache.SessionStore
	OTP      *OTPService
}

// CreateSession stores a fresh unvalidated session and returns its token.
func (s *MFASessionService) CreateSession(ctx context.Context, username string, privilege domain.Privilege) (string, error) {
	token := uuid.NewString()
	session := &domain.MFASession{
		Username:  username,
		Privilege: privilege,
		Validated: false,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.Sessions.Save(ctx, token, session); err != nil {
		return "", fmt.Errorf("create mfa session: %w", err)
	}
	return token, nil
}

// GetSession loads the session behind token. Absent, expired and corrupted
// sessions all come back as ErrInvalidSession.
func (s *MFASessionService) GetSession(ctx context.Context, token string) (*domain.MFASession, error) {
	session, err := s.Sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load mfa session: %w", err)
	}
	return session, nil
}

// DeleteSession removes the session once the flow is complete.
func (s *MFASessionService) DeleteSession(ctx context.Context, token string) error {
	if err := s.Sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete mfa session: %w", err)
	}
	return nil
}

// TriggerOTPSend generates a code, attaches it to the session and
// dispatches it. The session is persisted before dispatch so a delivered
// code always has matching server state; each send replaces any earlier
// code.
func (s *MFASessionService) TriggerOTPSend(ctx context.Context, token string, session *domain.MFASession) error {
	payload, err := s.OTP.GenerateOTP(session.Username)
	if err != nil {
		return err
	}

	session.OTPCode = payload.Code
	session.OTPExpiresAt = payload.ExpiresAt.UnixMilli()
	if err := s.Sessions.Save(ctx, token, session); err != nil {
		return fmt.Errorf("attach otp to session: %w", err)
	}

	return s.OTP.SendMFACode(ctx, payload)
}

// VerifyOTPCode checks the submitted code against the session and marks
// the session validated on success. The stored code is cleared at the same
// time, so a code can never be accepted twice.
func (s *MFASessionService) VerifyOTPCode(ctx context.Context, token, code string) (*domain.MFASession, error) {
	session, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Validated {
		return nil, ErrInvalidSession
	}
	if session.OTPCode == "" || session.OTPExpired(time.Now()) {
		return nil, ErrExpiredCode
	}
	if subtle.ConstantTimeCompare([]byte(session.OTPCode), []byte(code)) != 1 {
		return nil, ErrInvalidCode
	}

	session.Validated = true
	session.OTPCode = ""
	session.OTPExpiresAt = 0
	if err := s.Sessions.Save(ctx, token, session); err != nil {
		return nil, fmt.Errorf("mark session validated: %w", err)
	}
	return session, nil
}
