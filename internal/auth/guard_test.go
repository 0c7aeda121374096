package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookreview/internal/apperr"
	"bookreview/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "guard-secret"

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func bearer(t *testing.T, sub string, ttl time.Duration) string {
	t.Helper()
	token, err := GenerateToken(testSecret, sub, ttl)
	require.NoError(t, err)
	return "Bearer " + token
}

func assertUnauthorized(t *testing.T, err error, subtype error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, subtype)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUnauthorized, e.Code)
	assert.Equal(t, message, e.Message)
}

func TestGuard_Authenticate(t *testing.T) {
	userID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		users := new(mockUsers)
		users.On("GetByID", mock.Anything, userID).Return(user.User{ID: userID, Username: "reader", Email: "r@example.com"}, nil)
		g := NewGuard(testSecret, users)

		id, err := g.Authenticate(context.Background(), bearer(t, userID, time.Hour))
		require.NoError(t, err)
		assert.Equal(t, Identity{UserID: userID, Username: "reader", Email: "r@example.com"}, id)
		users.AssertExpectations(t)
	})

	t.Run("missing header", func(t *testing.T) {
		g := NewGuard(testSecret, new(mockUsers))
		_, err := g.Authenticate(context.Background(), "")
		assertUnauthorized(t, err, ErrMissingCredential, "Access denied. No token provided or invalid format.")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		g := NewGuard(testSecret, new(mockUsers))
		_, err := g.Authenticate(context.Background(), "Basic abc")
		assertUnauthorized(t, err, ErrMissingCredential, "Access denied. No token provided or invalid format.")
	})

	t.Run("empty bearer", func(t *testing.T) {
		g := NewGuard(testSecret, new(mockUsers))
		_, err := g.Authenticate(context.Background(), "Bearer   ")
		assertUnauthorized(t, err, ErrMissingCredential, "Access denied. No token provided or invalid format.")
	})

	t.Run("bad signature", func(t *testing.T) {
		g := NewGuard("other-secret", new(mockUsers))
		_, err := g.Authenticate(context.Background(), bearer(t, userID, time.Hour))
		assertUnauthorized(t, err, ErrInvalidCredential, "Invalid token.")
	})

	t.Run("expired", func(t *testing.T) {
		g := NewGuard(testSecret, new(mockUsers))
		_, err := g.Authenticate(context.Background(), bearer(t, userID, -time.Minute))
		assertUnauthorized(t, err, ErrExpiredCredential, "Token expired.")
	})

	t.Run("deleted user", func(t *testing.T) {
		users := new(mockUsers)
		users.On("GetByID", mock.Anything, userID).Return(user.User{}, user.ErrNotFound)
		g := NewGuard(testSecret, users)

		_, err := g.Authenticate(context.Background(), bearer(t, userID, time.Hour))
		assertUnauthorized(t, err, ErrUnknownUser, "Invalid token. User not found.")
	})

	t.Run("subject is not an id", func(t *testing.T) {
		g := NewGuard(testSecret, new(mockUsers))
		_, err := g.Authenticate(context.Background(), bearer(t, "nope", time.Hour))
		assertUnauthorized(t, err, ErrUnknownUser, "Invalid token. User not found.")
	})

	t.Run("store failure", func(t *testing.T) {
		users := new(mockUsers)
		users.On("GetByID", mock.Anything, userID).Return(user.User{}, errors.New("db down"))
		g := NewGuard(testSecret, users)

		_, err := g.Authenticate(context.Background(), bearer(t, userID, time.Hour))
		assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	})
}

func TestGuard_Require(t *testing.T) {
	userID := uuid.NewString()
	users := new(mockUsers)
	users.On("GetByID", mock.Anything, userID).Return(user.User{ID: userID, Username: "reader"}, nil)
	g := NewGuard(testSecret, users)

	var got Identity
	handler := g.Require(func(w http.ResponseWriter, r *http.Request, id Identity) {
		got = id
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("passes identity", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		r.Header.Set("Authorization", bearer(t, userID, time.Hour))
		w := httptest.NewRecorder()

		handler(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, userID, got.UserID)
	})

	t.Run("rejects", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodPost, "/api/books", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "No token provided")
	})
}
