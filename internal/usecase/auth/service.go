// Package auth implements signup and login with bcrypt password hashing.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasknest/tasknest/internal/domain"
	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
	domuser "github.com/tasknest/tasknest/internal/domain/user"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// Session is the result of a successful signup or login.
type Session struct {
	User      domuser.User
	Token     string
	ExpiresAt time.Time
}

// Service handles account registration and login.
type Service struct {
	repo     Repository
	profiles ProfileWriter
	tokens   TokenIssuer
	logger   *zap.Logger
}

// New creates an auth service.
func New(repo Repository, profiles ProfileWriter, tokens TokenIssuer, logger *zap.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, tokens: tokens, logger: logger}
}

// Signup registers a new account and returns a signed session.
// The initial profile is seeded from the signup name; a profile write failure
// does not fail the signup, the profile endpoint creates it lazily.
func (s *Service) Signup(ctx context.Context, email, password, fullName string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if len(password) < MinPasswordLen {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UnixMilli()
	u, err := domuser.New(uuid.NewString(), email, string(hash), fullName, now)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.profiles.Upsert(ctx, domprofile.New(u.ID(), u.FullName(), "", now)); err != nil {
		s.logger.Warn("Failed to seed profile on signup", zap.String("user_id", u.ID()), zap.Error(err))
	}

	return s.issueSession(u)
}

// Login verifies credentials and returns a signed session.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)) != nil {
		return Session{}, domain.ErrInvalidCredentials
	}

	return s.issueSession(u)
}

func (s *Service) issueSession(u domuser.User) (Session, error) {
	tok, expiresAt, err := s.tokens.Issue(u.ID())
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: u, Token: tok, ExpiresAt: expiresAt}, nil
}
