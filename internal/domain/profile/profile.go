// Package profile holds the user profile aggregate.
package profile

import "strings"

// Profile is per-user display data. Avatar bytes live in external object
// storage; only the URL is persisted here.
type Profile struct {
	userID    string
	fullName  string
	avatarURL string
	updatedAt int64
}

// New creates a Profile for a user.
func New(userID, fullName, avatarURL string, now int64) Profile {
	return Profile{
		userID:    userID,
		fullName:  strings.TrimSpace(fullName),
		avatarURL: strings.TrimSpace(avatarURL),
		updatedAt: now,
	}
}

// Reconstruct creates a Profile from storage.
func Reconstruct(userID, fullName, avatarURL string, updatedAt int64) Profile {
	return Profile{userID: userID, fullName: fullName, avatarURL: avatarURL, updatedAt: updatedAt}
}

// UserID returns the owning user's identifier.
func (p *Profile) UserID() string { return p.userID }

// FullName returns the display name.
func (p *Profile) FullName() string { return p.fullName }

// AvatarURL returns the avatar image URL, possibly empty.
func (p *Profile) AvatarURL() string { return p.avatarURL }

// UpdatedAt returns the last update time in unix milliseconds.
func (p *Profile) UpdatedAt() int64 { return p.updatedAt }

// Patch holds optional profile updates; nil means "leave unchanged".
type Patch struct {
	FullName  *string
	AvatarURL *string
}

// Apply returns the updated profile.
func (pt *Patch) Apply(p Profile, now int64) Profile {
	if pt.FullName != nil {
		p.fullName = strings.TrimSpace(*pt.FullName)
	}
	if pt.AvatarURL != nil {
		p.avatarURL = strings.TrimSpace(*pt.AvatarURL)
	}
	p.updatedAt = now
	return p
}
