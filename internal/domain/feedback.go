package domain

import "time"

// Feedback types.
const (
	FeedbackTypeBug     = "bug"
	FeedbackTypeFeature = "feature"
	FeedbackTypeGeneral = "general"
)

// Feedback is a user-submitted rating and message. UserID and Email are
// empty for anonymous submissions.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Rating    int       `json:"rating,omitempty"`
	Message   string    `json:"message"`
	Type      string    `json:"feedback_type"`
	CreatedAt time.Time `json:"created_at"`
}
