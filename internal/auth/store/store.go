// Package store defines the persistence interfaces consumed by the auth
// services. Drivers live under store/drivers and must never leak raw
// database errors across this boundary.
package store

import (
	"context"
	"errors"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
)

// ErrNotFound reports that a requested row does not exist. Drivers map
// their native "no rows" conditions to this sentinel.
var ErrNotFound = errors.New("store: not found")

// Store aggregates the relational adapters and owns the connection pool.
type Store interface {
	Users() UserStore
	SecurityLog() SecurityLogStore

	Ping(ctx context.Context) error
	Close() error
}

// UserStore reads credential and contact data. The auth flow never writes
// to the user tables.
type UserStore interface {
	// GetUser returns the account identified by username including its
	// privilege rank and active flag.
	GetUser(ctx context.Context, username string) (domain.User, error)

	// GetCredential returns the stored derived key and salt.
	GetCredential(ctx context.Context, username string) (domain.Credential, error)

	// GetContactInfo returns the delivery addresses on file.
	GetContactInfo(ctx context.Context, username string) (domain.ContactInfo, error)
}

// SecurityLogStore appends to the immutable authentication audit trail.
type SecurityLogStore interface {
	Append(ctx context.Context, entry domain.SecurityLogEntry) error
}
