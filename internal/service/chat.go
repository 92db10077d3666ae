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
	"github.com/ShanmukPranay/Health-Chatbot/internal/event"
	"github.com/ShanmukPranay/Health-Chatbot/internal/repository"
)

// ChatService stores and retrieves conversation history per account.
type ChatService struct {
	chatRepo   repository.ChatRepository
	producer   *event.Producer
	logger     *slog.Logger
	maxHistory int
	now        func() time.Time
}

// NewChatService creates a new chat history service. maxHistory caps how
// many exchanges List returns.
func NewChatService(
	chatRepo repository.ChatRepository,
	producer *event.Producer,
	logger *slog.Logger,
	maxHistory int,
) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		producer:   producer,
		logger:     logger,
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// SaveInput holds the parameters for recording one exchange.
type SaveInput struct {
	SessionID   string
	UserMessage string
	BotResponse string
	Category    string
}

// Save records one user-message/bot-response exchange for the account.
func (s *ChatService) Save(ctx context.Context, userID string, input SaveInput) (*domain.Chat, error) {
	if strings.TrimSpace(input.UserMessage) == "" {
		return nil, apperrors.Validation("message is required")
	}

	category := input.Category
	if category == "" {
		category = domain.ChatCategoryGeneral
	}

	chat := &domain.Chat{
		ID:          uuid.New().String(),
		UserID:      userID,
		SessionID:   input.SessionID,
		UserMessage: input.UserMessage,
		BotResponse: input.BotResponse,
		Category:    category,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("save chat: %w", err)
	}

	if err := s.producer.PublishChatSaved(ctx, chat); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish chat saved event",
			slog.String("chat_id", chat.ID),
			slog.String("error", err.Error()),
		)
	}

	return chat, nil
}

// List returns the account's most recent exchanges, newest first.
func (s *ChatService) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	chats, err := s.chatRepo.ListByUser(ctx, userID, s.maxHistory)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return chats, nil
}

// Clear deletes the account's entire history and returns how many
// exchanges were removed.
func (s *ChatService) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := s.chatRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear chats: %w", err)
	}

	s.logger.InfoContext(ctx, "chat history cleared",
		slog.String("user_id", userID),
		slog.Int64("deleted", n),
	)

	return n, nil
}
