package entity

import (
	"time"
)

// Known authentication providers. AuthProvider is extensible; anything other
// than ProviderLocal is treated as an external identity provider.
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
)

// User is the sole aggregate of the identity domain. An account is either
// local (bcrypt hash in PasswordHash, AuthProvider=local) or bound to an
// external provider (OAuthSubjectID set, PasswordHash possibly empty).
// Optional columns are represented as empty strings; the store translates
// them to NULL-free storage with partial uniqueness on the identity pair.
type User struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   string
	AuthProvider   string
	OAuthSubjectID string
	AvatarURL      string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExternal reports whether the account is currently authenticated by an
// external provider rather than a local password.
func (u *User) IsExternal() bool {
	return u.AuthProvider != "" && u.AuthProvider != ProviderLocal
}

// HasLocalCredential reports whether a password is configured at all.
func (u *User) HasLocalCredential() bool {
	return u.PasswordHash != ""
}
