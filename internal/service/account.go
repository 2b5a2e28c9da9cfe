// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Ali34f/VideoTranscriber/internal/auth"
	"github.com/Ali34f/VideoTranscriber/internal/metrics"
	"github.com/Ali34f/VideoTranscriber/internal/model"
	"github.com/Ali34f/VideoTranscriber/internal/repository"
)

// Account validation rules.
const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// Account service errors. The invalid-credentials message is deliberately
// the same for unknown usernames and wrong passwords.
var (
	ErrFieldsRequired     = errors.New("all fields are required")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionStore issues and resolves session tokens.
type SessionStore interface {
	CreateSession(ctx context.Context, sess *model.Session) (string, error)
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// AccountService handles signup, login, logout, and session resolution.
type AccountService struct {
	users    UserStore
	sessions SessionStore
	metrics  metrics.Recorder
}

// NewAccountService creates an AccountService.
func NewAccountService(users UserStore, sessions SessionStore, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:    users,
		sessions: sessions,
		metrics:  recorder,
	}
}

// SignUp validates the fields, creates the account, and establishes a
// session for it. Returns the created user and the fresh session token.
//
// The existence checks before the insert are a fast path for friendly
// errors; the database unique constraints remain the authority and their
// violations map to the same conflict errors.
func (s *AccountService) SignUp(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, "", ErrFieldsRequired
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, "", ErrUsernameTooShort
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, "", ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailExists):
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.sessions.CreateSession(ctx, &model.Session{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, "", fmt.Errorf("establish session: %w", err)
	}

	s.metrics.IncSignup(metrics.OutcomeSuccess)
	return user, token, nil
}

// LogIn verifies the credentials and establishes a new session.
// A fresh token is always minted; any token the caller presented with the
// request must be discarded by the caller, which rotates the session
// identifier on every login.
func (s *AccountService) LogIn(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrFieldsRequired
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.OutcomeFailed)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLogin(metrics.OutcomeFailed)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.CreateSession(ctx, &model.Session{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, "", fmt.Errorf("establish session: %w", err)
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	return user, token, nil
}

// LogOut invalidates the session token. Idempotent: an empty or unknown
// token is a successful no-op.
func (s *AccountService) LogOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

// CurrentSession resolves a token to its session.
// Returns (nil, nil) when the token is absent, unknown, or expired - the
// basis of an "am I logged in" check that never fails.
func (s *AccountService) CurrentSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}
	return s.sessions.GetSession(ctx, token)
}

// GetUser loads a user by id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
