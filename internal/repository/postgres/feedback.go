package postgres

import (
	"context"
	"fmt"

	"github.com/ShanmukPranay/Health-Chatbot/internal/database"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
)

// FeedbackRepository implements repository.FeedbackRepository using PostgreSQL.
type FeedbackRepository struct {
	pool database.DBTX
}

// NewFeedbackRepository creates a new PostgreSQL-backed feedback repository.
func NewFeedbackRepository(pool database.DBTX) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Create inserts a feedback entry.
func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, user_id, email, rating, message, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		f.ID,
		f.UserID,
		f.Email,
		f.Rating,
		f.Message,
		f.Type,
		f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}
