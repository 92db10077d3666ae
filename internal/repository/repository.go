package repository

import (
	"context"
	"time"

	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (exact match).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// CountByRole returns the number of users holding each role.
	CountByRole(ctx context.Context) (map[string]int, error)

	// CountActiveSince returns the number of users whose last-modified
	// timestamp is at or after the given instant.
	CountActiveSince(ctx context.Context, since time.Time) (int, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)
}

// OTPRepository defines the interface for one-time code persistence.
type OTPRepository interface {
	// Create inserts a new one-time code record.
	Create(ctx context.Context, code *domain.OneTimeCode) error

	// FindActive returns the unconsumed record matching (email, code,
	// purpose) exactly. Expiry is not checked here; the caller decides
	// what an out-of-window match means.
	FindActive(ctx context.Context, email, code, purpose string) (*domain.OneTimeCode, error)

	// DeleteUnconsumed removes all unconsumed codes for (email, purpose).
	DeleteUnconsumed(ctx context.Context, email, purpose string) error

	// Consume idempotently marks the record as used.
	Consume(ctx context.Context, id string) error

	// ListByUser returns the most recent codes issued for a user.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.OneTimeCode, error)

	// CountUnconsumed returns the number of unconsumed codes in the store.
	CountUnconsumed(ctx context.Context) (int, error)
}

// ChatRepository defines the interface for chat history persistence.
type ChatRepository interface {
	// Create appends a chat exchange to the user's history.
	Create(ctx context.Context, chat *domain.Chat) error

	// ListByUser returns the newest chats for a user, up to limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Chat, error)

	// DeleteByUser removes all chats for a user and returns how many
	// were deleted.
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	// CountByUser returns the number of chats a user owns.
	CountByUser(ctx context.Context, userID string) (int, error)

	// LastByUser returns the most recent chat for a user, or nil.
	LastByUser(ctx context.Context, userID string) (*domain.Chat, error)

	// Count returns the total number of chats.
	Count(ctx context.Context) (int, error)

	// CountSince returns the number of chats created at or after the
	// given instant.
	CountSince(ctx context.Context, since time.Time) (int, error)

	// CountByCategory returns the number of chats per category.
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// FeedbackRepository defines the interface for feedback persistence.
type FeedbackRepository interface {
	// Create inserts a feedback record.
	Create(ctx context.Context, fb *domain.Feedback) error
}
