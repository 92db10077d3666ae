package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShanmukPranay/Health-Chatbot/internal/auth"
	"github.com/ShanmukPranay/Health-Chatbot/internal/health"
	"github.com/ShanmukPranay/Health-Chatbot/internal/middleware"
	"github.com/ShanmukPranay/Health-Chatbot/internal/ratelimit"
	"github.com/ShanmukPranay/Health-Chatbot/internal/repository"
	"github.com/ShanmukPranay/Health-Chatbot/internal/service"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	AuthService     *service.AuthService
	ChatService     *service.ChatService
	FeedbackService *service.FeedbackService
	StatsService    *service.StatsService
	Tokens          *auth.TokenManager
	Users           repository.UserRepository
	Health          *health.Handler
	Limiter         *ratelimit.Limiter
	Logger          *slog.Logger
	AppName         string
	CORS            CORSConfig
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("chatbot"))

	// Health and metrics endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/api/health", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	systemHandler := NewSystemHandler(deps.StatsService, deps.AppName, deps.Logger)
	r.Get("/", systemHandler.Root)
	r.Get("/api/stats", systemHandler.Stats)

	sessionAuth := middleware.Auth(deps.Tokens, deps.Users)

	// Auth endpoints (public, rate limited)
	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			if deps.Limiter != nil {
				r.Use(middleware.RateLimit(deps.Limiter))
			}

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/verify-reset-code", authHandler.VerifyResetCode)
			r.Post("/reset-password", authHandler.ResetPassword)
		})
	})

	// Profile endpoints (auth required)
	userHandler := NewUserHandler(deps.AuthService, deps.Logger)
	r.Route("/api/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(sessionAuth)

		r.Get("/me", userHandler.GetProfile)
		r.Put("/me", userHandler.UpdateProfile)
	})

	// Chat history endpoints (auth required)
	chatHandler := NewChatHandler(deps.ChatService, deps.Logger)
	r.Route("/api/chat", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(sessionAuth)

		r.Post("/save", chatHandler.Save)
		r.Get("/history", chatHandler.History)
		r.Delete("/clear", chatHandler.Clear)
	})

	// Feedback: anonymous callers are welcome, a valid session attributes
	// the submission to its account.
	feedbackHandler := NewFeedbackHandler(deps.FeedbackService, deps.Logger)
	r.With(ContentTypeJSON, middleware.OptionalAuth(deps.Tokens, deps.Users)).
		Post("/api/feedback", feedbackHandler.Submit)

	// Admin surface (auth + admin role)
	adminHandler := NewAdminHandler(deps.AuthService, deps.StatsService, deps.Logger)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(sessionAuth)
		r.Use(middleware.RequireAdmin)

		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/users", adminHandler.ListUsers)
		r.Get("/users/{email}", adminHandler.UserDetail)
		r.Put("/users/role", adminHandler.ChangeRole)
	})

	return r
}
