package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bookreview/internal/apperr"
	"bookreview/internal/httpx"
	"bookreview/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Authentication failure subtypes, reachable through errors.Is.
var (
	ErrMissingCredential = errors.New("missing or malformed credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("expired credential")
	ErrUnknownUser       = errors.New("unknown user")
)

const bearerPrefix = "Bearer "

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// UserLookup resolves token subjects to stored users.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Guard validates bearer credentials and resolves them to an Identity.
type Guard struct {
	secret string
	users  UserLookup
}

func NewGuard(secret string, users UserLookup) *Guard {
	return &Guard{secret: secret, users: users}
}

// Authenticate checks an Authorization header value. It has no side effects
// beyond the user lookup.
func (g *Guard) Authenticate(ctx context.Context, header string) (Identity, error) {
	if !strings.HasPrefix(header, bearerPrefix) || strings.TrimSpace(header[len(bearerPrefix):]) == "" {
		return Identity{}, apperr.Unauthorized("Access denied. No token provided or invalid format.", ErrMissingCredential)
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])

	claims, err := ParseToken(g.secret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperr.Unauthorized("Token expired.", ErrExpiredCredential)
		}
		return Identity{}, apperr.Unauthorized("Invalid token.", ErrInvalidCredential)
	}

	if _, err := uuid.Parse(claims.Sub); err != nil {
		return Identity{}, apperr.Unauthorized("Invalid token. User not found.", ErrUnknownUser)
	}

	u, err := g.users.GetByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Identity{}, apperr.Unauthorized("Invalid token. User not found.", ErrUnknownUser)
		}
		return Identity{}, apperr.Internal("Server error during authentication.", err)
	}

	return Identity{UserID: u.ID, Username: u.Username, Email: u.Email}, nil
}

// HandlerFunc is an http handler that receives the authenticated caller.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, id Identity)

// Require adapts next into a plain handler that rejects unauthenticated
// requests before next runs.
func (g *Guard) Require(next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		next(w, r, id)
	}
}
