// Package profile implements profile read and update.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tasknest/tasknest/internal/domain"
	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
)

// Service handles profile operations.
type Service struct {
	repo  Repository
	users UserReader
}

// New creates a profile service.
func New(repo Repository, users UserReader) *Service {
	return &Service{repo: repo, users: users}
}

// Get returns the user's profile. Accounts that predate profile seeding get
// one created lazily from the account's name.
func (s *Service) Get(ctx context.Context, userID string) (domprofile.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domprofile.Profile{}, err
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return domprofile.Profile{}, err
	}

	p = domprofile.New(userID, u.FullName(), "", time.Now().UnixMilli())
	if err := s.repo.Upsert(ctx, p); err != nil {
		return domprofile.Profile{}, fmt.Errorf("seed profile: %w", err)
	}
	return p, nil
}

// Update applies a partial update and returns the stored profile.
func (s *Service) Update(ctx context.Context, userID string, patch domprofile.Patch) (domprofile.Profile, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return domprofile.Profile{}, err
	}

	updated := patch.Apply(current, time.Now().UnixMilli())
	if err := s.repo.Upsert(ctx, updated); err != nil {
		return domprofile.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}
