// Package user persists accounts as Redis hashes under tasknest:user:<id>,
// with a KV lookup key per normalized email for login and uniqueness.
package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tasknest/tasknest/internal/db"
	"github.com/tasknest/tasknest/internal/domain"
	domuser "github.com/tasknest/tasknest/internal/domain/user"
)

const (
	keyPrefix       = domain.KeyPrefix + "user:"
	emailLookupPref = domain.KeyPrefix + "user:email:"
)

const (
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
	fieldFullName     = "full_name"
	fieldCreatedAt    = "created_at"
)

type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
}

// Repo implements the user repository over Redis hashes.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a new account. The email lookup key is claimed first with
// SETNX so two concurrent signups for the same address cannot both succeed.
func (r *Repo) Create(ctx context.Context, u domuser.User) error {
	claimed, err := r.store.SetNX(ctx, emailKey(u.Email()), []byte(u.ID()))
	if err != nil {
		return fmt.Errorf("claim email %s: %w", u.Email(), err)
	}
	if !claimed {
		return domain.ErrEmailTaken
	}

	fields := map[string]string{
		fieldEmail:        u.Email(),
		fieldPasswordHash: u.PasswordHash(),
		fieldFullName:     u.FullName(),
		fieldCreatedAt:    strconv.FormatInt(u.CreatedAt(), 10),
	}
	if err := r.store.HSet(ctx, userKey(u.ID()), fields); err != nil {
		// Release the claim, or the address stays unregistrable with no
		// account behind it.
		_ = r.store.Del(ctx, emailKey(u.Email()))
		return fmt.Errorf("hset user %s: %w", u.ID(), err)
	}
	return nil
}

// Get returns an account by ID.
func (r *Repo) Get(ctx context.Context, id string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, userKey(id))
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall user %s: %w", id, err)
	}
	if len(m) == 0 {
		return domuser.User{}, domain.ErrNotFound
	}
	return parseHashFields(id, m), nil
}

// GetByEmail returns the account registered under a normalized email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domuser.User, error) {
	id, err := r.store.Get(ctx, emailKey(email))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrNotFound
		}
		return domuser.User{}, fmt.Errorf("lookup email %s: %w", email, err)
	}
	return r.Get(ctx, string(id))
}

func userKey(id string) string {
	return keyPrefix + id
}

func emailKey(email string) string {
	return emailLookupPref + domuser.NormalizeEmail(email)
}

func parseHashFields(id string, m map[string]string) domuser.User {
	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	return domuser.Reconstruct(id, m[fieldEmail], m[fieldPasswordHash], m[fieldFullName], createdAt)
}
