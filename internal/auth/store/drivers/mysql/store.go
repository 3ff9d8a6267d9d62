// Package mysql implements the store interfaces on MariaDB/MySQL using
// parameterized queries through database/sql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "mysql" driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/mcitys/mcitys-api/internal/auth/store"
)

// Store owns the MariaDB connection pool. The pool is created once at
// startup and shared across all requests.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// NewStore opens a connection pool for the given DSN and verifies
// connectivity before returning.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing pool. Used by tests with sqlmock.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() store.UserStore              { return &userStore{db: s.db} }
func (s *Store) SecurityLog() store.SecurityLogStore { return &securityLogStore{db: s.db} }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }
