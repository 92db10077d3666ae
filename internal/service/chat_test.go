package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
)

func newTestChatService(chatRepo *mockChatRepository) *ChatService {
	return NewChatService(chatRepo, newTestEventProducer(), newTestLogger(), 50)
}

func TestChatSave(t *testing.T) {
	chatRepo := new(mockChatRepository)
	svc := newTestChatService(chatRepo)

	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	chatRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Chat) bool {
		return c.UserID == "u-1" &&
			c.UserMessage == "what is a healthy resting heart rate" &&
			c.Category == domain.ChatCategoryHealth &&
			c.CreatedAt.Equal(fixed)
	})).Return(nil)

	chat, err := svc.Save(context.Background(), "u-1", SaveInput{
		SessionID:   "s-1",
		UserMessage: "what is a healthy resting heart rate",
		BotResponse: "60 to 100 beats per minute for adults",
		Category:    domain.ChatCategoryHealth,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, "s-1", chat.SessionID)

	chatRepo.AssertExpectations(t)
}

func TestChatSave_DefaultsCategory(t *testing.T) {
	chatRepo := new(mockChatRepository)
	svc := newTestChatService(chatRepo)

	chatRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Chat) bool {
		return c.Category == domain.ChatCategoryGeneral
	})).Return(nil)

	chat, err := svc.Save(context.Background(), "u-1", SaveInput{
		UserMessage: "hello",
		BotResponse: "hi there",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChatCategoryGeneral, chat.Category)
}

func TestChatSave_EmptyMessage(t *testing.T) {
	chatRepo := new(mockChatRepository)
	svc := newTestChatService(chatRepo)

	_, err := svc.Save(context.Background(), "u-1", SaveInput{
		UserMessage: "   ",
		BotResponse: "response",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	chatRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChatList(t *testing.T) {
	chatRepo := new(mockChatRepository)
	svc := newTestChatService(chatRepo)

	history := []domain.Chat{
		{ID: "c-2", UserID: "u-1", UserMessage: "second"},
		{ID: "c-1", UserID: "u-1", UserMessage: "first"},
	}
	chatRepo.On("ListByUser", mock.Anything, "u-1", 50).Return(history, nil)

	chats, err := svc.List(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, history, chats)
}

func TestChatClear(t *testing.T) {
	chatRepo := new(mockChatRepository)
	svc := newTestChatService(chatRepo)

	chatRepo.On("DeleteByUser", mock.Anything, "u-1").Return(int64(7), nil)

	n, err := svc.Clear(context.Background(), "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestChatClear_RepoError(t *testing.T) {
	chatRepo := new(mockChatRepository)
	svc := newTestChatService(chatRepo)

	chatRepo.On("DeleteByUser", mock.Anything, "u-1").Return(int64(0), errors.New("connection reset"))

	_, err := svc.Clear(context.Background(), "u-1")
	assert.Error(t, err)
}
