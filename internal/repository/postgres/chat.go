package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ShanmukPranay/Health-Chatbot/internal/database"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
)

// ChatRepository implements repository.ChatRepository using PostgreSQL.
type ChatRepository struct {
	pool database.DBTX
}

// NewChatRepository creates a new PostgreSQL-backed chat repository.
func NewChatRepository(pool database.DBTX) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Create inserts a new chat exchange.
func (r *ChatRepository) Create(ctx context.Context, c *domain.Chat) error {
	query := `
		INSERT INTO chats (id, user_id, session_id, user_message, bot_response, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.SessionID,
		c.UserMessage,
		c.BotResponse,
		c.Category,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	return nil
}

// ListByUser returns the most recent chats for a user, newest first.
func (r *ChatRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Chat, error) {
	query := `
		SELECT id, user_id, session_id, user_message, bot_response, category, created_at
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.SessionID,
			&c.UserMessage,
			&c.BotResponse,
			&c.Category,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}
		chats = append(chats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat rows: %w", err)
	}

	if chats == nil {
		chats = []domain.Chat{}
	}

	return chats, nil
}

// DeleteByUser removes all chats belonging to a user and returns how many
// were removed.
func (r *ChatRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM chats WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete chats: %w", err)
	}
	return ct.RowsAffected(), nil
}

// CountByUser returns the number of chats a user has stored.
func (r *ChatRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chats WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chats: %w", err)
	}
	return n, nil
}

// LastByUser returns the most recent chat for a user.
func (r *ChatRepository) LastByUser(ctx context.Context, userID string) (*domain.Chat, error) {
	query := `
		SELECT id, user_id, session_id, user_message, bot_response, category, created_at
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var c domain.Chat
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.SessionID,
		&c.UserMessage,
		&c.BotResponse,
		&c.Category,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan last chat: %w", err)
	}

	return &c, nil
}

// Count returns the total number of stored chats.
func (r *ChatRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chats`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chats: %w", err)
	}
	return n, nil
}

// CountSince returns the number of chats created at or after the given instant.
func (r *ChatRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chats WHERE created_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recent chats: %w", err)
	}
	return n, nil
}

// CountByCategory returns the number of chats per category.
func (r *ChatRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT category, COUNT(*) FROM chats GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count chats by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[category] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}

	return counts, nil
}
