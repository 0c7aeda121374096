package user

import (
	"context"
	"testing"

	"bookreview/internal/apperr"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	t.Run("normalizes email", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *User) error {
			assert.Equal(t, "reader@example.com", u.Email)
			assert.Equal(t, "reader", u.Username)
			u.ID = "u-1"
			return nil
		})

		u, err := svc.Register(context.Background(), " reader ", " Reader@Example.com ", "hash")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		assert.Equal(t, "hash", u.PasswordHash)
	})

	t.Run("conflict passes through", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperr.Conflict("email", "taken"))

		_, err := svc.Register(context.Background(), "reader", "reader@example.com", "hash")
		assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	})
}

func TestService_GetByEmail_Normalizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	repo.EXPECT().GetByEmail(gomock.Any(), "reader@example.com").Return(User{ID: "u-1"}, nil)

	u, err := svc.GetByEmail(context.Background(), "READER@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
}
