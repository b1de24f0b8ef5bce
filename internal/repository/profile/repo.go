// Package profile persists user profiles as Redis hashes under tasknest:profile:<userID>.
package profile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tasknest/tasknest/internal/domain"
	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
)

const keyPrefix = domain.KeyPrefix + "profile:"

const (
	fieldFullName  = "full_name"
	fieldAvatarURL = "avatar_url"
	fieldUpdatedAt = "updated_at"
)

type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements the profile repository over Redis hashes.
type Repo struct {
	store store
}

// New creates a profile repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns a user's profile.
func (r *Repo) Get(ctx context.Context, userID string) (domprofile.Profile, error) {
	m, err := r.store.HGetAll(ctx, profileKey(userID))
	if err != nil {
		return domprofile.Profile{}, fmt.Errorf("hgetall profile %s: %w", userID, err)
	}
	if len(m) == 0 {
		return domprofile.Profile{}, domain.ErrNotFound
	}
	updatedAt, _ := strconv.ParseInt(m[fieldUpdatedAt], 10, 64)
	return domprofile.Reconstruct(userID, m[fieldFullName], m[fieldAvatarURL], updatedAt), nil
}

// Upsert writes a user's profile, creating it on first save.
func (r *Repo) Upsert(ctx context.Context, p domprofile.Profile) error {
	fields := map[string]string{
		fieldFullName:  p.FullName(),
		fieldAvatarURL: p.AvatarURL(),
		fieldUpdatedAt: strconv.FormatInt(p.UpdatedAt(), 10),
	}
	if err := r.store.HSet(ctx, profileKey(p.UserID()), fields); err != nil {
		return fmt.Errorf("hset profile %s: %w", p.UserID(), err)
	}
	return nil
}

func profileKey(userID string) string {
	return keyPrefix + userID
}
