package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
)

type securityLogStore struct {
	db *sql.DB
}

// Append inserts one audit record. The table has no corresponding UPDATE
// or DELETE anywhere in the codebase; the journal is append-only.
func (s *securityLogStore) Append(ctx context.Context, entry domain.SecurityLogEntry) error {
	const query = `
		INSERT INTO users_login_journal
			(correlation_id, auth_session_token, username, attempt_time, ip_address, user_agent, success, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		entry.CorrelationID,
		entry.AuthSessionToken,
		entry.Username,
		entry.AttemptedAt,
		entry.IPAddress,
		entry.UserAgent,
		entry.Success,
		entry.Reason,
	)
	if err != nil {
		return fmt.Errorf("append security log: %w", err)
	}
	return nil
}
