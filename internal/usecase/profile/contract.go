package profile

import (
	"context"

	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
	domuser "github.com/tasknest/tasknest/internal/domain/user"
)

// Repository defines the storage contract for profiles.
type Repository interface {
	Get(ctx context.Context, userID string) (domprofile.Profile, error)
	Upsert(ctx context.Context, p domprofile.Profile) error
}

// UserReader reads accounts to lazily seed a missing profile.
type UserReader interface {
	Get(ctx context.Context, id string) (domuser.User, error)
}
