package postgres

import (
	"errors"
	"studio-service/internal/repository/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies every pending embedded migration. databaseURL must use the
// pgx5:// scheme.
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errFailedLoadMigrations(err)
	}

	m, err := migrate.NewWithSourceInstance(migrationSourceName, source, databaseURL)
	if err != nil {
		return errFailedInitMigrations(err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errFailedApplyMigrations(err)
	}
	return nil
}
