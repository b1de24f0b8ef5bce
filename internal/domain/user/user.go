// Package user holds the account aggregate.
package user

import (
	"fmt"
	"strings"
)

// User is a registered account. The password hash never leaves this layer
// except to the user repository.
type User struct {
	id           string
	email        string
	passwordHash string
	fullName     string
	createdAt    int64
}

// New validates and creates a User. email is stored lowercased.
func New(id, email, passwordHash, fullName string, now int64) (User, error) {
	email = NormalizeEmail(email)
	if id == "" {
		return User{}, fmt.Errorf("user ID is required")
	}
	if email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("email %q is not valid", email)
	}
	if passwordHash == "" {
		return User{}, fmt.Errorf("password hash is required")
	}

	return User{
		id: id, email: email, passwordHash: passwordHash,
		fullName: strings.TrimSpace(fullName), createdAt: now,
	}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(id, email, passwordHash, fullName string, createdAt int64) User {
	return User{id: id, email: email, passwordHash: passwordHash, fullName: fullName, createdAt: createdAt}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ID returns the user identifier.
func (u *User) ID() string { return u.id }

// Email returns the normalized email address.
func (u *User) Email() string { return u.email }

// PasswordHash returns the bcrypt hash of the password.
func (u *User) PasswordHash() string { return u.passwordHash }

// FullName returns the display name, possibly empty.
func (u *User) FullName() string { return u.fullName }

// CreatedAt returns the signup time in unix milliseconds.
func (u *User) CreatedAt() int64 { return u.createdAt }
