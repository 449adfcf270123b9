package repository

import (
	"testing"

	"github.com/fujocoded/guestbook-appview/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Guestbook{},
		&models.Submission{},
		&models.HideMarker{},
		&models.BlockedUser{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}
