package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
)

var (
	// ErrSessionNotFound covers absent, expired and corrupted sessions
	// alike; callers cannot distinguish the three.
	ErrSessionNotFound = errors.New("cache: mfa session not found")

	// ErrSessionBackend reports that the key-value store was unreachable.
	ErrSessionBackend = errors.New("cache: mfa session backend unavailable")
)

// SessionStore persists MFA sessions as JSON blobs with a fixed TTL
// enforced by the store. Every Save refreshes the full TTL.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: client, ttl: ttl}
}

func (s *SessionStore) key(token string) string {
	return "mfa_session:" + token
}

// Save writes the session state under token with the configured TTL.
func (s *SessionStore) Save(ctx context.Context, token string, session *domain.MFASession) error {
	encoded, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode mfa session: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(token), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionBackend, err)
	}
	return nil
}

// Get returns the session stored under token. A corrupted record is
// treated identically to an absent one; it must never surface as a crash.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.MFASession, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionBackend, err)
	}

	var session domain.MFASession
	if err := json.Unmarshal(data, &session); err != nil {
		slog.Warn("discarding corrupted mfa session record", "err", err)
		return nil, ErrSessionNotFound
	}
	if session.Username == "" || !session.Privilege.Valid() {
		slog.Warn("discarding mfa session record with missing fields")
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionBackend, err)
	}
	return nil
}
