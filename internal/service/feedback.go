package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
	"github.com/ShanmukPranay/Health-Chatbot/internal/repository"
)

// FeedbackService records user feedback. Submissions may be anonymous.
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// FeedbackInput holds a feedback submission. UserID and Email are empty
// for anonymous callers.
type FeedbackInput struct {
	UserID  string
	Email   string
	Rating  int
	Message string
	Type    string
}

// Submit validates and stores a feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, input FeedbackInput) (*domain.Feedback, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.Validation("message is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	fbType := input.Type
	switch fbType {
	case "":
		fbType = domain.FeedbackTypeGeneral
	case domain.FeedbackTypeBug, domain.FeedbackTypeFeature, domain.FeedbackTypeGeneral:
	default:
		return nil, apperrors.Validation("invalid feedback type")
	}

	fb := &domain.Feedback{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		Email:     input.Email,
		Rating:    input.Rating,
		Message:   input.Message,
		Type:      fbType,
		CreatedAt: s.now().UTC(),
	}

	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	s.logger.InfoContext(ctx, "feedback submitted",
		slog.String("feedback_id", fb.ID),
		slog.String("type", fb.Type),
		slog.Int("rating", fb.Rating),
	)

	return fb, nil
}
