package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/apperrors"
	"warbler/database/dbtest"
	"warbler/models"
)

func TestMessageModel(t *testing.T) {
	db := dbtest.New(t)
	users := NewUserRepository(db.DB)
	messages := NewMessageRepository(db.DB)
	ctx := context.Background()
	u1 := createUser(t, users, 3333, "testuser1")

	msg := &models.Message{Text: "Test Message", UserID: u1.ID}
	require.NoError(t, messages.Create(ctx, msg))
	assert.False(t, msg.Timestamp.IsZero())

	got, err := messages.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, u1.ID, got.User.ID)
	assert.Equal(t, "testuser1", got.User.Username)
}

func TestMessageValidation(t *testing.T) {
	db := dbtest.New(t)
	users := NewUserRepository(db.DB)
	messages := NewMessageRepository(db.DB)
	ctx := context.Background()
	u := createUser(t, users, 0, "testuser1")

	assert.ErrorIs(t, messages.Create(ctx, &models.Message{Text: "  ", UserID: u.ID}), apperrors.ErrValidation)
	assert.ErrorIs(t, messages.Create(ctx, &models.Message{Text: strings.Repeat("a", 141), UserID: u.ID}), apperrors.ErrValidation)
	assert.ErrorIs(t, messages.Create(ctx, &models.Message{Text: "orphan"}), apperrors.ErrValidation)
	assert.NoError(t, messages.Create(ctx, &models.Message{Text: strings.Repeat("å", 140), UserID: u.ID}))

	err := messages.Create(ctx, &models.Message{Text: "ghost", UserID: 9999})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMessageDelete(t *testing.T) {
	db := dbtest.New(t)
	users := NewUserRepository(db.DB)
	messages := NewMessageRepository(db.DB)
	ctx := context.Background()
	owner := createUser(t, users, 1111, "user")
	other := createUser(t, users, 0, "other")
	require.NoError(t, messages.Create(ctx, &models.Message{ID: 2222, Text: "message", UserID: owner.ID}))

	err := messages.Delete(ctx, 2222, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, messages.Delete(ctx, 2222, owner.ID))
	_, err = messages.FindByID(ctx, 2222)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, messages.Delete(ctx, 2222, owner.ID), apperrors.ErrNotFound)
}

func TestTimeline(t *testing.T) {
	db := dbtest.New(t)
	users := NewUserRepository(db.DB)
	messages := NewMessageRepository(db.DB)
	ctx := context.Background()
	a := createUser(t, users, 0, "alice")
	b := createUser(t, users, 0, "bob")
	c := createUser(t, users, 0, "carol")
	require.NoError(t, users.Follow(ctx, a.ID, b.ID))

	for _, m := range []*models.Message{
		{Text: "a1", UserID: a.ID},
		{Text: "b1", UserID: b.ID},
		{Text: "c1", UserID: c.ID},
		{Text: "b2", UserID: b.ID},
	} {
		require.NoError(t, messages.Create(ctx, m))
	}

	timeline, err := messages.Timeline(ctx, a.ID, 100)
	require.NoError(t, err)
	var texts []string
	for _, m := range timeline {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"b2", "b1", "a1"}, texts)
	assert.Equal(t, "bob", timeline[0].User.Username)

	timeline, err = messages.Timeline(ctx, a.ID, 2)
	require.NoError(t, err)
	assert.Len(t, timeline, 2)

	latest, err := messages.Latest(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, latest, 4)

	mine, err := messages.ListByUser(ctx, b.ID, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
