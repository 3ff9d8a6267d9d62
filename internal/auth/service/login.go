package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/store"
	"github.com/mcitys/mcitys-api/pkg/cryptox"
)

// LoginService verifies usernames and passwords against the user store.
// Every verification failure collapses into ErrInvalidCredentials so a
// caller cannot tell an unknown user from a wrong password or a
// deactivated account.
type LoginService struct {
	Users store.UserStore
}

// CheckUserID looks up an account by username and confirms it is active.
func (s *LoginService) CheckUserID(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// CheckPassword fetches the stored credential and verifies the supplied
// password against it.
func (s *LoginService) CheckPassword(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	cred, err := s.Users.GetCredential(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("lookup credential: %w", err)
	}

	if err := cryptox.VerifyPassword(password, cred.PasswordHash, cred.Salt); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("verify password: %w", err)
	}

	return nil
}

// Authenticate runs the account and password checks together and returns
// the user record on success.
func (s *LoginService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.CheckUserID(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.CheckPassword(ctx, username, password); err != nil {
		return nil, err
	}
	return user, nil
}
