// Package sqlite provides a lightweight SQLite-backed database for local
// development and tests.
package sqlite

import (
	"fmt"

	gormmodels "github.com/foodgram/v2/internal/infrastructure/persistence/gorm"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens a SQLite database at the given path and migrates the schema.
// Foreign key enforcement is enabled explicitly; SQLite ships with it off.
func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.AutoMigrate(gormmodels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// ConnectInMemory opens a fresh, isolated in-memory database. The database
// is named uniquely with shared cache so the pool's connections all see the
// same schema.
func ConnectInMemory() (*gorm.DB, error) {
	name := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return Connect(name)
}
