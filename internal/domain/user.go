package domain

import (
	"time"
	"unicode"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultAvatar returns the avatar shown when none is set: the uppercase
// first rune of the display name.
func DefaultAvatar(name string) string {
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return ""
}
