package user_test

import (
	"context"
	"testing"
	"time"

	"bookreview/internal/apperr"
	"bookreview/internal/testutil"
	"bookreview/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Create(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	repo := user.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	u := &user.User{Username: "reader", Email: "reader@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	err := repo.Create(ctx, &user.User{Username: "other", Email: "READER@example.com", PasswordHash: "hash"})
	assert.True(t, apperr.HasField(err, "email"))

	err = repo.Create(ctx, &user.User{Username: "Reader", Email: "new@example.com", PasswordHash: "hash"})
	assert.True(t, apperr.HasField(err, "username"))

	got, err := repo.GetByEmail(ctx, "Reader@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
