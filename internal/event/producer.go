package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	appkafka "github.com/ShanmukPranay/Health-Chatbot/internal/kafka"
)

// Kafka topics for domain events.
const (
	TopicUserRegistered         = "chatbot.user.registered"
	TopicUserPasswordResetAsked = "chatbot.user.password_reset_requested"
	TopicUserRoleChanged        = "chatbot.user.role_changed"
	TopicChatSaved              = "chatbot.chat.saved"
)

// Aggregate type constants.
const (
	AggregateTypeUser = "user"
	AggregateTypeChat = "chat"
)

// Source identifier for events originating from this service.
const SourceChatbot = "health-chatbot"

// UserRegisteredData is the payload for a user registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// PasswordResetRequestedData is the payload for a password reset requested event.
type PasswordResetRequestedData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// RoleChangedData is the payload for a role changed event.
type RoleChangedData struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	OldRole   string `json:"old_role"`
	NewRole   string `json:"new_role"`
	ChangedBy string `json:"changed_by"`
}

// ChatSavedData is the payload for a chat saved event.
type ChatSavedData struct {
	ChatID    string `json:"chat_id"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Category  string `json:"category"`
}

// Producer publishes chatbot domain events to Kafka.
type Producer struct {
	kafka  *appkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *appkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}

	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, data)
}

// PublishPasswordResetRequested publishes a password reset requested event.
func (p *Producer) PublishPasswordResetRequested(ctx context.Context, userID, email string) error {
	data := PasswordResetRequestedData{
		UserID: userID,
		Email:  email,
	}

	return p.publish(ctx, TopicUserPasswordResetAsked, userID, AggregateTypeUser, data)
}

// PublishRoleChanged publishes a role changed event.
func (p *Producer) PublishRoleChanged(ctx context.Context, user *domain.User, oldRole, changedBy string) error {
	data := RoleChangedData{
		UserID:    user.ID,
		Email:     user.Email,
		OldRole:   oldRole,
		NewRole:   user.Role,
		ChangedBy: changedBy,
	}

	return p.publish(ctx, TopicUserRoleChanged, user.ID, AggregateTypeUser, data)
}

// PublishChatSaved publishes a chat saved event.
func (p *Producer) PublishChatSaved(ctx context.Context, chat *domain.Chat) error {
	data := ChatSavedData{
		ChatID:    chat.ID,
		UserID:    chat.UserID,
		SessionID: chat.SessionID,
		Category:  chat.Category,
	}

	return p.publish(ctx, TopicChatSaved, chat.ID, AggregateTypeChat, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := appkafka.NewEvent(topic, aggregateID, aggregateType, SourceChatbot, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
