package domain

import "github.com/OnelioViera/drinking-app-v1/internal/color"

// User represents an authenticated account. Identity issuance (sign-up,
// sign-in) is the only auth concern modeled here; journal entries and
// sobriety periods are scoped to User.ID.
type User struct {
	Tracked
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	// AvatarColor is derived from the user ID, never stored.
	AvatarColor string `json:"avatar_color,omitempty"`
}

// Public returns a copy safe to serialize in API responses.
func (u *User) Public() *User {
	pub := *u
	pub.PasswordHash = ""
	pub.AvatarColor = color.ForUser(u.ID)
	return &pub
}
