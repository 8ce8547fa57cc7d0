package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/outpost-go/internal/infrastructure/database"
)

// NewTestDB creates a new migrated SQLite in-memory database for testing
func NewTestDB(t testing.TB) *gorm.DB {
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Cleanup after test
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}
