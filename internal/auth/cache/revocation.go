package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRevocationBackend reports that the key-value store was unreachable
// while touching the revocation list.
var ErrRevocationBackend = errors.New("cache: revocation backend unavailable")

// RevocationList is the out-of-band denylist for issued tokens. A key's
// existence means "revoked"; entries expire together with the token they
// shadow, so the list never outgrows the set of live tokens.
type RevocationList struct {
	redis *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{redis: client}
}

func (l *RevocationList) key(jti string) string {
	return "revoked_jwt:" + jti
}

// Revoke marks jti as revoked for the token's remaining lifetime.
func (l *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := l.redis.Set(ctx, l.key(jti), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRevocationBackend, err)
	}
	return nil
}

// IsRevoked reports whether jti is on the denylist.
func (l *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.redis.Exists(ctx, l.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRevocationBackend, err)
	}
	return n > 0, nil
}
