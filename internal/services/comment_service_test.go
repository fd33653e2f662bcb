package services_test

import (
	"strings"
	"testing"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/testutil"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment_CreatesDayEntryOnce(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", false)
	bob := f.user(t, "bob", false)

	comment, err := f.svc.Comments.AddComment(f.ctx, bob.ID, "alice", "2024-06-10", "see you there")
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Author.Username)

	entry := f.dayEntry(t, alice.ID, "2024-06-10")
	assert.Equal(t, entry.ID, comment.DayEntryID)
	assert.Equal(t, models.AvailabilityNone, entry.AvailabilityStatus)

	_, err = f.svc.Comments.AddComment(f.ctx, alice.ID, "alice", "2024-06-10", "me too")
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &models.DayEntry{}, ""))
	assert.Equal(t, int64(2), testutil.Count(t, f.db, &models.DayComment{}, "day_entry_id = ?", entry.ID))
}

func TestAddComment_Rejections(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice", false)
	bob := f.user(t, "bob", false)

	tests := []struct {
		name    string
		owner   string
		content string
		code    string
	}{
		{name: "empty", owner: "alice", content: "  ", code: errors.ErrCodeValidation},
		{name: "markup only", owner: "alice", content: "<br/>", code: errors.ErrCodeValidation},
		{name: "too long", owner: "alice", content: strings.Repeat("c", 241), code: errors.ErrCodeValidation},
		{name: "unknown owner", owner: "nobody", content: "hi", code: errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Comments.AddComment(f.ctx, bob.ID, tt.owner, "2024-06-10", tt.content)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}

	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.DayEntry{}, ""))

	_, err := f.svc.Comments.AddComment(f.ctx, bob.ID, "alice", "2024-06-10", strings.Repeat("c", 240))
	assert.NoError(t, err)
}
