package auth

import (
	"context"
	"time"

	domprofile "github.com/tasknest/tasknest/internal/domain/profile"
	domuser "github.com/tasknest/tasknest/internal/domain/user"
)

// Repository defines the storage contract for accounts.
type Repository interface {
	Create(ctx context.Context, u domuser.User) error
	Get(ctx context.Context, id string) (domuser.User, error)
	GetByEmail(ctx context.Context, email string) (domuser.User, error)
}

// ProfileWriter seeds the initial profile on signup.
type ProfileWriter interface {
	Upsert(ctx context.Context, p domprofile.Profile) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}
