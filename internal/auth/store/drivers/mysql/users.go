package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/store"
)

type userStore struct {
	db *sql.DB
}

func (s *userStore) GetUser(ctx context.Context, username string) (domain.User, error) {
	const query = `
		SELECT ui.username, up.privilege, ui.account_active
		FROM users_index ui
		INNER JOIN users_privileges up ON ui.username = up.username
		WHERE ui.username = ?`

	var (
		user   domain.User
		priv   string
		active int
	)
	err := s.db.QueryRowContext(ctx, query, username).Scan(&user.Username, &priv, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("query user: %w", err)
	}

	user.Privilege = domain.Privilege(priv)
	user.Active = active == 1
	return user, nil
}

func (s *userStore) GetCredential(ctx context.Context, username string) (domain.Credential, error) {
	const query = `
		SELECT username, password, pass_salt
		FROM users_index
		WHERE username = ?`

	var cred domain.Credential
	err := s.db.QueryRowContext(ctx, query, username).Scan(&cred.Username, &cred.PasswordHash, &cred.Salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Credential{}, store.ErrNotFound
		}
		return domain.Credential{}, fmt.Errorf("query credential: %w", err)
	}
	return cred, nil
}

func (s *userStore) GetContactInfo(ctx context.Context, username string) (domain.ContactInfo, error) {
	const query = `
		SELECT COALESCE(phone_number, ''), COALESCE(email, '')
		FROM users_index
		WHERE username = ?`

	var info domain.ContactInfo
	err := s.db.QueryRowContext(ctx, query, username).Scan(&info.PhoneNumber, &info.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ContactInfo{}, store.ErrNotFound
		}
		return domain.ContactInfo{}, fmt.Errorf("query contact info: %w", err)
	}
	return info, nil
}
