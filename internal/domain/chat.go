package domain

import "time"

// Chat categories recognized by the assistant frontend.
const (
	ChatCategoryHealth    = "health"
	ChatCategoryAnalytics = "text_analytics"
	ChatCategoryGeneral   = "general"
)

// Chat is one user-message/bot-response exchange in a conversation session.
type Chat struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}
