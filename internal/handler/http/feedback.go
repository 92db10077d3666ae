package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ShanmukPranay/Health-Chatbot/internal/middleware"
	"github.com/ShanmukPranay/Health-Chatbot/internal/service"
	"github.com/ShanmukPranay/Health-Chatbot/internal/validator"
)

// FeedbackHandler handles HTTP requests for feedback submission.
type FeedbackHandler struct {
	service *service.FeedbackService
	logger  *slog.Logger
}

// NewFeedbackHandler creates a new feedback HTTP handler.
func NewFeedbackHandler(svc *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{service: svc, logger: logger}
}

// FeedbackRequest is the JSON request body for feedback submission.
type FeedbackRequest struct {
	Email   string `json:"email"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"feedback_type" validate:"omitempty,oneof=bug feature general"`
}

// Submit handles POST /api/feedback. The endpoint is public; when a valid
// session accompanies the request the submission is attributed to it.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.FeedbackInput{
		Email:   req.Email,
		Rating:  req.Rating,
		Message: req.Message,
		Type:    req.Type,
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		input.UserID = user.ID
		input.Email = user.Email
	}

	fb, err := h.service.Submit(r.Context(), input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: fb})
}
