// Package testutils provides shared helpers for tests: isolated in-memory
// databases and entity factories.
package testutils

import (
	"testing"

	"github.com/foodgram/v2/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens an isolated in-memory database with the schema migrated
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.ConnectInMemory()
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
