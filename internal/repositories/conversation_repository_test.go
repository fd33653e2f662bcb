package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
	"github.com/mroshb/daymate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRepository_EnsureBothOrderings(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewConversationRepository(db)
	alice := testutil.CreateUser(t, db, "alice", false)
	bob := testutil.CreateUser(t, db, "bob", false)
	ctx := context.Background()

	ab, err := repo.Ensure(ctx, alice.ID, bob.ID, time.Now())
	require.NoError(t, err)
	ba, err := repo.Ensure(ctx, bob.ID, alice.ID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, ab.ID, ba.ID)
	assert.True(t, ab.UserAID < ab.UserBID)
}

func TestConversationRepository_EnsureConcurrent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewConversationRepository(db)
	alice := testutil.CreateUser(t, db, "alice", false)
	bob := testutil.CreateUser(t, db, "bob", false)

	const rounds = 6
	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := repo.Ensure(context.Background(), alice.ID, bob.ID, time.Now())
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := repo.Ensure(context.Background(), bob.ID, alice.ID, time.Now())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, testutil.Count(t, db, &models.Conversation{}, ""))
}

func TestConversationRepository_ListForUserOrdersByActivity(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewConversationRepository(db)
	alice := testutil.CreateUser(t, db, "alice", false)
	bob := testutil.CreateUser(t, db, "bob", false)
	carol := testutil.CreateUser(t, db, "carol", false)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	withBob, err := repo.Ensure(ctx, alice.ID, bob.ID, base)
	require.NoError(t, err)
	withCarol, err := repo.Ensure(ctx, alice.ID, carol.ID, base.Add(time.Minute))
	require.NoError(t, err)

	require.NoError(t, repo.Touch(ctx, withBob.ID, base.Add(time.Hour)))

	list, err := repo.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withBob.ID, list[0].ID)
	assert.Equal(t, withCarol.ID, list[1].ID)
	assert.Equal(t, bob.ID, list[0].Other(alice.ID))
	assert.NotEmpty(t, list[0].UserA.Username)
	assert.NotEmpty(t, list[0].UserB.Username)
}
