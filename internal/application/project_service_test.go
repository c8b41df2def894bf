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

func newProjectService(store *memStore, users *fakeUserRepo, projects *fakeProjectRepo, eng *fakeEngagementRepo) *ProjectService {
	logger := logrus.New()
	return &ProjectService{
		Repo:        projects,
		Users:       users,
		Engagements: eng,
		Cascade:     cascade.NewEngine(store, cascade.DefaultLimits, logger),
		Logger:      logger,
	}
}

func seedAuthor(t *testing.T, users *fakeUserRepo) *entity.User {
	t.Helper()
	u := &entity.User{ID: "u1", Email: "a@b.c", Name: "Alex", AvatarURL: "https://cdn/a.png"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestCreateDenormalizesAuthor(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	seedAuthor(t, users)
	svc := newProjectService(newMemStore(), users, newFakeProjectRepo(), newFakeEngagementRepo())

	p, err := svc.Create(ctx, "u1", ProjectInput{Title: "Tiny Pomodoro", Summary: "timer"})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.AuthorID)
	assert.Equal(t, "Alex", p.AuthorName)
	assert.Equal(t, "https://cdn/a.png", p.AuthorAvatarURL)
}

func TestUpdateOwnerOnly(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	seedAuthor(t, users)
	projects := newFakeProjectRepo()
	svc := newProjectService(newMemStore(), users, projects, newFakeEngagementRepo())

	p, err := svc.Create(ctx, "u1", ProjectInput{Title: "Tiny Pomodoro", Summary: "timer"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u2", p.ID, ProjectInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := svc.Update(ctx, "u1", p.ID, ProjectInput{Title: "Tiny Pomodoro v2"})
	require.NoError(t, err)
	assert.Equal(t, "Tiny Pomodoro v2", got.Title)
}

func TestLikeIsIdempotentPerPair(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	seedAuthor(t, users)
	projects := newFakeProjectRepo()
	svc := newProjectService(newMemStore(), users, projects, newFakeEngagementRepo())

	p, err := svc.Create(ctx, "u1", ProjectInput{Title: "T", Summary: "s"})
	require.NoError(t, err)

	require.NoError(t, svc.Like(ctx, "u2", p.ID))
	assert.ErrorIs(t, svc.Like(ctx, "u2", p.ID), ErrAlreadyLiked)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikeCount)

	require.NoError(t, svc.Unlike(ctx, "u2", p.ID))
	assert.ErrorIs(t, svc.Unlike(ctx, "u2", p.ID), ErrNotLiked)

	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.LikeCount)
}

func TestWhispersVisibleToAuthorOnly(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	seedAuthor(t, users)
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u2", Name: "Sam"}))
	svc := newProjectService(newMemStore(), users, newFakeProjectRepo(), newFakeEngagementRepo())

	p, err := svc.Create(ctx, "u1", ProjectInput{Title: "T", Summary: "s"})
	require.NoError(t, err)

	_, err = svc.AddWhisper(ctx, "u2", p.ID, "private feedback")
	require.NoError(t, err)

	_, err = svc.ListWhispers(ctx, "u2", p.ID, 10)
	assert.ErrorIs(t, err, ErrNotOwner)

	whispers, err := svc.ListWhispers(ctx, "u1", p.ID, 10)
	require.NoError(t, err)
	require.Len(t, whispers, 1)
	assert.Equal(t, "Sam", whispers[0].SenderName)
}

func TestProjectHardDeleteScope(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	seedAuthor(t, users)
	projects := newFakeProjectRepo()
	store := newMemStore()
	svc := newProjectService(store, users, projects, newFakeEngagementRepo())

	p, err := svc.Create(ctx, "u1", ProjectInput{Title: "T", Summary: "s"})
	require.NoError(t, err)
	store.put(entity.ColProjects, p.ID, map[string]any{"authorId": "u1"})
	store.put(entity.ColComments, "c1", map[string]any{"projectId": p.ID})
	store.put(entity.ColLikes, "u2_"+p.ID, map[string]any{"projectId": p.ID})
	store.put(entity.ColComments, "c2", map[string]any{"projectId": "other"})

	_, err = svc.HardDelete(ctx, "u2", p.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	sum, err := svc.HardDelete(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Zero(t, sum.Failed)
	assert.Equal(t, 3, sum.Documents)

	assert.False(t, store.exists(entity.ColProjects, p.ID))
	assert.False(t, store.exists(entity.ColComments, "c1"))
	assert.False(t, store.exists(entity.ColLikes, "u2_"+p.ID))
	assert.True(t, store.exists(entity.ColComments, "c2"), "other projects' comments survive")
}
