package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
)

// Token purposes. Session tokens carry no purpose; reset tokens are
// narrowly scoped to password reset.
const PurposePasswordReset = "password_reset"

const issuer = "health-chatbot"

// Claims are the JWT claims carried by both token classes. Purpose is
// empty for session tokens.
type Claims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the two classes of signed, time-bound
// bearer tokens. It holds no state beyond the signing secret and the
// configured lifetimes; verification is a pure function of the token, the
// secret, and the clock. Rotating the secret invalidates every
// outstanding token at once.
type TokenManager struct {
	secret        []byte
	sessionExpiry time.Duration
	resetExpiry   time.Duration
	now           func() time.Time
}

// NewTokenManager creates a token manager with the given secret and expiry
// durations.
func NewTokenManager(secret string, sessionExpiry, resetExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:        []byte(secret),
		sessionExpiry: sessionExpiry,
		resetExpiry:   resetExpiry,
		now:           time.Now,
	}
}

// WithClock overrides the time source. Tests use this to drive expiry
// deterministically.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// IssueSessionToken creates a signed session token for the given email and
// returns it with its lifetime.
func (m *TokenManager) IssueSessionToken(email string) (string, time.Duration, error) {
	token, err := m.issue(email, "", m.sessionExpiry)
	if err != nil {
		return "", 0, fmt.Errorf("sign session token: %w", err)
	}
	return token, m.sessionExpiry, nil
}

// IssueResetToken creates a signed short-lived token scoped to password
// reset for the given email.
func (m *TokenManager) IssueResetToken(email string) (string, error) {
	token, err := m.issue(email, PurposePasswordReset, m.resetExpiry)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return token, nil
}

func (m *TokenManager) issue(email, purpose string, expiry time.Duration) (string, error) {
	now := m.now().UTC()
	claims := &Claims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			Issuer:    issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify validates a token's signature and expiry and returns its claims.
// The token's purpose must match expectedPurpose exactly, so a reset
// token can never stand in for a session token or vice versa. A valid
// signature past its expiry fails Expired; anything structurally wrong,
// wrongly signed, or carrying the wrong purpose fails Malformed.
func (m *TokenManager) Verify(tokenString, expectedPurpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Expired("token")
		}
		return nil, apperrors.Malformed()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.Malformed()
	}

	if claims.Purpose != expectedPurpose {
		return nil, apperrors.Malformed()
	}

	return claims, nil
}
