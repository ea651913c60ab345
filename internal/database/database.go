// Package database provides helpers for connecting to PostgreSQL and running
// schema migrations. The schema is managed exclusively by versioned SQL files
// in migrations/; GORM's AutoMigrate is not used.
package database

import (
	"github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres database driver and the file://
	// source driver with the migrate library.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a connection to the PostgreSQL database at the given DSN and
// returns the GORM handle used for all queries.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// RunMigrations applies any pending "up" migrations from the migrations/
// directory. The migrate library tracks applied versions in the
// schema_migrations table, so re-running at every startup is safe.
func RunMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}
