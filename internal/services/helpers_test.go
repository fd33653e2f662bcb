package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/services"
	"github.com/mroshb/daymate/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stepClock returns a distinct, increasing instant on every call so rows
// written in one test order deterministically.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	ctx context.Context
	db  *gorm.DB
	svc *services.Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	svc := services.New(db, services.DefaultLimits())
	svc.SetClock(newStepClock().Now)

	return &fixture{ctx: context.Background(), db: db, svc: svc}
}

func (f *fixture) user(t *testing.T, username string, friendOnly bool) *models.User {
	t.Helper()
	return testutil.CreateUser(t, f.db, username, friendOnly)
}

func (f *fixture) befriend(t *testing.T, a, b *models.User) {
	t.Helper()

	request, err := f.svc.Friends.SendRequest(f.ctx, a.ID, b.Username)
	require.NoError(t, err)
	_, err = f.svc.Friends.Respond(f.ctx, b.ID, request.ID, true)
	require.NoError(t, err)
}

func (f *fixture) dayEntry(t *testing.T, userID, date string) *models.DayEntry {
	t.Helper()

	var entry models.DayEntry
	err := f.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	require.NoError(t, err)
	return &entry
}

func (f *fixture) systemMessages(t *testing.T) int64 {
	t.Helper()
	return testutil.Count(t, f.db, &models.Message{}, "message_type = ?", models.MessageTypeSystem)
}
