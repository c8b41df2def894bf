package application

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideshelf/sideshelf/internal/cascade"
	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

func newDigestService(store *memStore, users *fakeUserRepo, digests *fakeDigestRepo) *DigestService {
	return &DigestService{
		Repo:   digests,
		Users:  users,
		Guard:  cascade.NewRetentionGuard(store),
		Logger: logrus.New(),
	}
}

func TestSubscribeRejectsInactiveDigest(t *testing.T) {
	ctx := context.Background()
	digests := newFakeDigestRepo()
	svc := newDigestService(newMemStore(), newFakeUserRepo(), digests)

	d := &entity.Digest{ID: "d1", Title: "Weekly Picks", IsActive: false}
	require.NoError(t, digests.Create(ctx, d))

	assert.ErrorIs(t, svc.Subscribe(ctx, "u1", "d1"), ErrDigestInactive)
	assert.ErrorIs(t, svc.Subscribe(ctx, "u1", "ghost"), ErrDigestNotFound)
}

func TestDeleteDeactivatesWithActiveSubscribers(t *testing.T) {
	ctx := context.Background()
	digests := newFakeDigestRepo()
	store := newMemStore()
	svc := newDigestService(store, newFakeUserRepo(), digests)

	require.NoError(t, digests.Create(ctx, &entity.Digest{ID: "d1", Title: "Weekly Picks", IsActive: true}))
	store.put(entity.ColDigests, "d1", map[string]any{"isActive": true})
	store.put(entity.ColDigestSubscriptions, "u1_d1", map[string]any{"digestId": "d1", "isActive": true})

	outcome, err := svc.Delete(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, cascade.OutcomeDeactivated, outcome)
	assert.Equal(t, false, store.field(entity.ColDigests, "d1", "isActive"))
}

func TestDeleteRemovesWithoutActiveSubscribers(t *testing.T) {
	ctx := context.Background()
	digests := newFakeDigestRepo()
	store := newMemStore()
	svc := newDigestService(store, newFakeUserRepo(), digests)

	require.NoError(t, digests.Create(ctx, &entity.Digest{ID: "d1", Title: "Weekly Picks", IsActive: true}))
	store.put(entity.ColDigests, "d1", map[string]any{"isActive": true})
	store.put(entity.ColDigestSubscriptions, "u1_d1", map[string]any{"digestId": "d1", "isActive": false})

	outcome, err := svc.Delete(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, cascade.OutcomeDeleted, outcome)
	assert.False(t, store.exists(entity.ColDigests, "d1"))
}

func TestSendIssueSkipsWithdrawnSubscribers(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	digests := newFakeDigestRepo()
	svc := newDigestService(newMemStore(), users, digests)

	require.NoError(t, digests.Create(ctx, &entity.Digest{ID: "d1", Title: "Weekly Picks", IsActive: true}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "a@b.c"}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u2", Email: "b@b.c", IsWithdrawn: true}))
	require.NoError(t, digests.Subscribe(ctx, "u1", "d1"))
	require.NoError(t, digests.Subscribe(ctx, "u2", "d1"))

	// No publisher configured, so nothing is queued, but the call must not
	// fail and must not count the withdrawn subscriber.
	sent, err := svc.SendIssue(ctx, "d1", "Issue #1", "Hello")
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSendIssueRejectsInactive(t *testing.T) {
	ctx := context.Background()
	digests := newFakeDigestRepo()
	svc := newDigestService(newMemStore(), newFakeUserRepo(), digests)
	require.NoError(t, digests.Create(ctx, &entity.Digest{ID: "d1", IsActive: false}))

	_, err := svc.SendIssue(ctx, "d1", "s", "b")
	assert.ErrorIs(t, err, ErrDigestInactive)
}
