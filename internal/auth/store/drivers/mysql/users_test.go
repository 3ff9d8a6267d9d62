package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewStoreWithDB(db), mock
}

func TestGetUser(t *testing.T) {
	t.Run("returns user with privilege and active flag", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT ui.username, up.privilege, ui.account_active").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"username", "privilege", "account_active"}).
				AddRow("alice", "ARTIST", 1))

		user, err := s.Users().GetUser(context.Background(), "alice")
		require.NoError(t, err)
		require.Equal(t, domain.User{Username: "alice", Privilege: domain.PrivilegeArtist, Active: true}, user)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT ui.username, up.privilege, ui.account_active").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"username", "privilege", "account_active"}))

		_, err := s.Users().GetUser(context.Background(), "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("inactive account is reported as inactive, not missing", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT ui.username, up.privilege, ui.account_active").
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows([]string{"username", "privilege", "account_active"}).
				AddRow("bob", "CLIENT", 0))

		user, err := s.Users().GetUser(context.Background(), "bob")
		require.NoError(t, err)
		require.False(t, user.Active)
	})
}

func TestGetCredential(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT username, password, pass_salt").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "pass_salt"}).
			AddRow("alice", "deadbeef", "a1b2c3"))

	cred, err := s.Users().GetCredential(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "deadbeef", cred.PasswordHash)
	require.Equal(t, "a1b2c3", cred.Salt)
}

func TestGetContactInfo(t *testing.T) {
	t.Run("null columns coalesce to empty strings", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"phone_number", "email"}).
				AddRow("", "alice@example.com"))

		info, err := s.Users().GetContactInfo(context.Background(), "alice")
		require.NoError(t, err)
		require.Empty(t, info.PhoneNumber)
		require.Equal(t, "alice@example.com", info.Email)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"phone_number", "email"}))

		_, err := s.Users().GetContactInfo(context.Background(), "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSecurityLogAppend(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectExec("INSERT INTO users_login_journal").
		WithArgs("corr-1", "", "alice", now, "192.0.2.1", "curl/8.0", true, "SUCCESS").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.SecurityLog().Append(context.Background(), domain.SecurityLogEntry{
		CorrelationID: "corr-1",
		Username:      "alice",
		AttemptedAt:   now,
		IPAddress:     "192.0.2.1",
		UserAgent:     "curl/8.0",
		Success:       true,
		Reason:        "SUCCESS",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
