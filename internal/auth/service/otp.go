package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/store"
	"github.com/mcitys/mcitys-api/internal/contact"
)

// DefaultOTPTTL is how long a one-time code stays valid after dispatch.
const DefaultOTPTTL = 5 * time.Minute

var otpCodeSpace = big.NewInt(1_000_000)

// OTPService generates one-time codes and dispatches them to the user's
// registered contact channel.
type OTPService struct {
	Users   store.UserStore
	Channel contact.Channel
	TTL     time.Duration
}

func (s *OTPService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultOTPTTL
	}
	return s.TTL
}

// GenerateOTP produces a zero-padded six digit code with an absolute
// expiry. The code space includes leading zeros, so "004217" is valid.
func (s *OTPService) GenerateOTP(username string) (domain.OTPPayload, error) {
	if username == "" {
		return domain.OTPPayload{}, fmt.Errorf("generate otp: empty username")
	}

	n, err := rand.Int(rand.Reader, otpCodeSpace)
	if err != nil {
		return domain.OTPPayload{}, fmt.Errorf("generate otp: %w", err)
	}

	return domain.OTPPayload{
		Username:  username,
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: time.Now().Add(s.ttl()),
	}, nil
}

// SendMFACode looks up the user's contact details and dispatches the code.
// Accounts without a registered phone number cannot complete the step up.
func (s *OTPService) SendMFACode(ctx context.Context, payload domain.OTPPayload) error {
	info, err := s.Users.GetContactInfo(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMissingContactInfo
		}
		return fmt.Errorf("lookup contact info: %w", err)
	}
	if info.PhoneNumber == "" {
		return ErrMissingContactInfo
	}

	text := fmt.Sprintf("MCITYS - Your security code is: %s. It expires in %d minutes.",
		payload.Code, int(s.ttl().Minutes()))

	if err := s.Channel.SendMessage(ctx, []string{info.PhoneNumber}, text, "MCITYS security code"); err != nil {
		return fmt.Errorf("%w: %w", ErrOTPDispatchFailed, err)
	}
	return nil
}
