package mysql

import (
	"errors"

	"github.com/mcitys/mcitys-api/internal/auth/store/drivers/mysql/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending schema migrations using the files
// embedded in the binary. Safe to call on every startup; already-applied
// migrations are skipped.
func (s *Store) ApplyMigrations() error {
	driver, err := migratemysql.WithInstance(s.db, &migratemysql.Config{})
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
