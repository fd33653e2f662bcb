package database_test

import (
	"testing"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAutoMigrate_CreatesTables(t *testing.T) {
	db := testutil.NewDB(t)

	for _, model := range []interface{}{
		&models.User{}, &models.DayEntry{}, &models.DayComment{}, &models.Friendship{},
		&models.MeetingProposal{}, &models.Conversation{}, &models.Message{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestUniqueViolation_IsTranslated(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", false)

	first := &models.DayEntry{UserID: alice.ID, Date: "2024-06-01"}
	require.NoError(t, db.Create(first).Error)

	second := &models.DayEntry{UserID: alice.ID, Date: "2024-06-01"}
	err := db.Create(second).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
