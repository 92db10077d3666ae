package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ShanmukPranay/Health-Chatbot/internal/middleware"
	"github.com/ShanmukPranay/Health-Chatbot/internal/service"
	"github.com/ShanmukPranay/Health-Chatbot/internal/validator"
)

// ChatHandler handles HTTP requests for chat history endpoints.
type ChatHandler struct {
	service *service.ChatService
	logger  *slog.Logger
}

// NewChatHandler creates a new chat HTTP handler.
func NewChatHandler(svc *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{service: svc, logger: logger}
}

// SaveChatRequest is the JSON request body for recording an exchange.
type SaveChatRequest struct {
	SessionID   string `json:"session_id"`
	UserMessage string `json:"user_message" validate:"required"`
	BotResponse string `json:"bot_response"`
	Category    string `json:"category" validate:"omitempty,oneof=health text_analytics general"`
}

// Save handles POST /api/chat/save
func (h *ChatHandler) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SaveChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user := middleware.UserFromContext(r.Context())

	chat, err := h.service.Save(r.Context(), user.ID, service.SaveInput{
		SessionID:   req.SessionID,
		UserMessage: req.UserMessage,
		BotResponse: req.BotResponse,
		Category:    req.Category,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: chat})
}

// History handles GET /api/chat/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	chats, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"history": chats,
		"count":   len(chats),
	}})
}

// Clear handles DELETE /api/chat/clear
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	deleted, err := h.service.Clear(r.Context(), user.ID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"message": "chat history cleared",
		"deleted": deleted,
	}})
}
