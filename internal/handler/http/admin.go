package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ShanmukPranay/Health-Chatbot/internal/middleware"
	"github.com/ShanmukPranay/Health-Chatbot/internal/service"
	"github.com/ShanmukPranay/Health-Chatbot/internal/validator"
)

// AdminHandler handles HTTP requests for the admin surface.
type AdminHandler struct {
	auth   *service.AuthService
	stats  *service.StatsService
	logger *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(auth *service.AuthService, stats *service.StatsService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{auth: auth, stats: stats, logger: logger}
}

// ChangeRoleRequest is the JSON request body for role assignment.
type ChangeRoleRequest struct {
	Email string `json:"email" validate:"required"`
	Role  string `json:"role" validate:"required"`
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	dashboard, err := h.stats.Dashboard(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: dashboard})
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())

	users, byRole, err := h.stats.ListUsers(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"users":       users,
		"count":       len(users),
		"role_counts": byRole,
	}})
}

// UserDetail handles GET /api/admin/users/{email}
func (h *AdminHandler) UserDetail(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromContext(r.Context())
	email := chi.URLParam(r, "email")

	detail, err := h.stats.UserDetail(r.Context(), caller, email)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: detail})
}

// ChangeRole handles PUT /api/admin/users/role
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	caller := middleware.UserFromContext(r.Context())

	updated, err := h.auth.ChangeRole(r.Context(), caller, req.Email, req.Role)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: updated})
}
