package auth

import (
	"context"
	"errors"
	"time"

	"bookreview/internal/apperr"
	"bookreview/internal/platform/validate"
	"bookreview/internal/user"
)

// ErrBadLogin is the cause attached to a failed login.
var ErrBadLogin = errors.New("invalid email or password")

type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password_strength"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what signup and login hand back to the client.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      user.User `json:"user"`
}

type Service struct {
	secret string
	ttl    time.Duration
	users  *user.Service
}

func NewService(secret string, ttl time.Duration, users *user.Service) *Service {
	return &Service{secret: secret, ttl: ttl, users: users}
}

// Signup registers an account and issues its first token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if err := validate.Check(in); err != nil {
		return Session{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, apperr.Internal("Server error during signup", err)
	}

	u, err := s.users.Register(ctx, in.Username, in.Email, hash)
	if err != nil {
		return Session{}, err
	}
	return s.issue(u)
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	if err := validate.Check(in); err != nil {
		return Session{}, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return Session{}, apperr.Internal("Server error during login", err)
	}
	if err != nil || !VerifyPassword(u.PasswordHash, in.Password) {
		return Session{}, apperr.Unauthorized("Invalid email or password", ErrBadLogin)
	}
	return s.issue(u)
}

func (s *Service) issue(u user.User) (Session, error) {
	token, err := GenerateToken(s.secret, u.ID, s.ttl)
	if err != nil {
		return Session{}, apperr.Internal("Server error while issuing token", err)
	}
	return Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.ttl).UTC(),
		User:      u,
	}, nil
}
