package domain

import "time"

// OTP purposes. Only password reset exists today; the column is kept
// generic so future purposes don't need a schema change.
const PurposePasswordReset = "password_reset"

// OneTimeCode is a short-lived numeric code delivered out-of-band to
// authorize a password reset. A code is single-use: it is consumed on the
// first verification attempt that matches it, whether that attempt
// succeeds or discovers the code expired.
type OneTimeCode struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
	CreatedAt time.Time `json:"created_at"`
}

// IsValid reports whether the code can still be redeemed at the given time.
func (c *OneTimeCode) IsValid(now time.Time) bool {
	return now.Before(c.ExpiresAt) && !c.Consumed
}
