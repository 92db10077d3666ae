package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ShanmukPranay/Health-Chatbot/internal/database"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
)

// OTPRepository implements repository.OTPRepository using PostgreSQL.
type OTPRepository struct {
	pool database.DBTX
}

// NewOTPRepository creates a new PostgreSQL-backed one-time-code repository.
func NewOTPRepository(pool database.DBTX) *OTPRepository {
	return &OTPRepository{pool: pool}
}

// Create inserts a new one-time code.
func (r *OTPRepository) Create(ctx context.Context, otp *domain.OneTimeCode) error {
	query := `
		INSERT INTO one_time_codes (id, user_id, email, code, purpose, expires_at, consumed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		otp.ID,
		otp.UserID,
		otp.Email,
		otp.Code,
		otp.Purpose,
		otp.ExpiresAt,
		otp.Consumed,
		otp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert one-time code: %w", err)
	}

	return nil
}

// FindActive returns the most recent unconsumed code matching the email,
// code value and purpose. Expiry is not checked here; the caller decides
// what an expired match means.
func (r *OTPRepository) FindActive(ctx context.Context, email, code, purpose string) (*domain.OneTimeCode, error) {
	query := `
		SELECT id, user_id, email, code, purpose, expires_at, consumed, created_at
		FROM one_time_codes
		WHERE email = $1 AND code = $2 AND purpose = $3 AND consumed = FALSE
		ORDER BY created_at DESC
		LIMIT 1`

	var otp domain.OneTimeCode
	err := r.pool.QueryRow(ctx, query, email, code, purpose).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Email,
		&otp.Code,
		&otp.Purpose,
		&otp.ExpiresAt,
		&otp.Consumed,
		&otp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find one-time code: %w", err)
	}

	return &otp, nil
}

// DeleteUnconsumed removes all unconsumed codes for the email and purpose.
// Issuing a fresh code always starts from a clean slate.
func (r *OTPRepository) DeleteUnconsumed(ctx context.Context, email, purpose string) error {
	query := `DELETE FROM one_time_codes WHERE email = $1 AND purpose = $2 AND consumed = FALSE`

	if _, err := r.pool.Exec(ctx, query, email, purpose); err != nil {
		return fmt.Errorf("delete unconsumed codes: %w", err)
	}

	return nil
}

// Consume marks a code as used.
func (r *OTPRepository) Consume(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `UPDATE one_time_codes SET consumed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("consume one-time code: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("one-time code", id)
	}

	return nil
}

// ListByUser returns the most recent codes issued to a user.
func (r *OTPRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.OneTimeCode, error) {
	query := `
		SELECT id, user_id, email, code, purpose, expires_at, consumed, created_at
		FROM one_time_codes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list one-time codes: %w", err)
	}
	defer rows.Close()

	var codes []domain.OneTimeCode
	for rows.Next() {
		var otp domain.OneTimeCode
		if err := rows.Scan(
			&otp.ID,
			&otp.UserID,
			&otp.Email,
			&otp.Code,
			&otp.Purpose,
			&otp.ExpiresAt,
			&otp.Consumed,
			&otp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan one-time code row: %w", err)
		}
		codes = append(codes, otp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate one-time code rows: %w", err)
	}

	if codes == nil {
		codes = []domain.OneTimeCode{}
	}

	return codes, nil
}

// CountUnconsumed returns the number of outstanding unconsumed codes.
func (r *OTPRepository) CountUnconsumed(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM one_time_codes WHERE consumed = FALSE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unconsumed codes: %w", err)
	}
	return n, nil
}
