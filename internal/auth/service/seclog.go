package service

import (
	"context"
	"time"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/auth/store"
	"github.com/mcitys/mcitys-api/pkg/slogx"
)

// SecurityLogger appends authentication attempts to the audit journal.
// Logging is best effort: a journal write failure is reported to the
// structured log and swallowed, it never fails the login it describes.
type SecurityLogger struct {
	Journal store.SecurityLogStore
}

// AttemptMeta carries the request-scoped fields attached to every entry.
type AttemptMeta struct {
	IPAddress        string
	UserAgent        string
	AuthSessionToken string
}

// LogSuccess records a successful step of the flow, including partial
// successes such as entering the MFA challenge.
func (l *SecurityLogger) LogSuccess(ctx context.Context, username, reason string, meta AttemptMeta) {
	l.append(ctx, username, reason, true, meta)
}

// LogFailure records a rejected attempt with the internal reason code.
func (l *SecurityLogger) LogFailure(ctx context.Context, username, reason string, meta AttemptMeta) {
	l.append(ctx, username, reason, false, meta)
}

func (l *SecurityLogger) append(ctx context.Context, username, reason string, success bool, meta AttemptMeta) {
	entry := domain.SecurityLogEntry{
		CorrelationID:    slogx.CorrelationID(ctx),
		AuthSessionToken: meta.AuthSessionToken,
		Username:         username,
		AttemptedAt:      time.Now(),
		IPAddress:        meta.IPAddress,
		UserAgent:        meta.UserAgent,
		Success:          success,
		Reason:           reason,
	}
	if err := l.Journal.Append(ctx, entry); err != nil {
		slogx.FromContext(ctx).Error("security journal write failed",
			"err", err,
			"username", username,
			"reason", reason,
		)
	}
}
