// Package testutil opens throwaway SQLite databases for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mroshb/daymate/internal/database"
	"github.com/mroshb/daymate/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated database backed by a file in t.TempDir().
// Transactions begin IMMEDIATE and wait on the busy timeout, so concurrent
// writers serialize instead of failing.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "daymate.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate&_foreign_keys=on&_journal_mode=WAL", path)

	db, err := database.Open(sqlite.Open(dsn), "test")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user directly, bypassing the user service.
func CreateUser(t *testing.T, db *gorm.DB, username string, friendOnly bool) *models.User {
	t.Helper()

	user := &models.User{Username: username, FriendOnlyForMeetingRequests: friendOnly}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// Count returns the number of rows of model matching the optional condition.
func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
