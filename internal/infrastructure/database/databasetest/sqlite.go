// Package databasetest opens throwaway migrated databases for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"booksite-backend/internal/infrastructure/database"
)

// SQLiteConfig returns a config for a fresh SQLite file under t.TempDir().
func SQLiteConfig(t *testing.T) *database.DBConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "author.db")
	return &database.DBConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: "file:" + path + "?_busy_timeout=5000",
		MaxRetries: 1,
	}
}

// NewSQLite opens a migrated SQLite database that is closed when the test ends.
func NewSQLite(t *testing.T) *database.DB {
	t.Helper()
	db := database.NewDB(SQLiteConfig(t))
	require.NoError(t, db.Connect(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}
