package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShanmukPranay/Health-Chatbot/internal/auth"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	"github.com/ShanmukPranay/Health-Chatbot/internal/event"
	appkafka "github.com/ShanmukPranay/Health-Chatbot/internal/kafka"
	"github.com/ShanmukPranay/Health-Chatbot/internal/mailer"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockUserRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- Mock OTP Repository ---

type mockOTPRepository struct {
	mock.Mock
}

func (m *mockOTPRepository) Create(ctx context.Context, otp *domain.OneTimeCode) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *mockOTPRepository) FindActive(ctx context.Context, email, code, purpose string) (*domain.OneTimeCode, error) {
	args := m.Called(ctx, email, code, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OneTimeCode), args.Error(1)
}

func (m *mockOTPRepository) DeleteUnconsumed(ctx context.Context, email, purpose string) error {
	args := m.Called(ctx, email, purpose)
	return args.Error(0)
}

func (m *mockOTPRepository) Consume(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOTPRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.OneTimeCode, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.OneTimeCode), args.Error(1)
}

func (m *mockOTPRepository) CountUnconsumed(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- Mock Chat Repository ---

type mockChatRepository struct {
	mock.Mock
}

func (m *mockChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *mockChatRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Chat, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Chat), args.Error(1)
}

func (m *mockChatRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockChatRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockChatRepository) LastByUser(ctx context.Context, userID string) (*domain.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *mockChatRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockChatRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *mockChatRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

// --- Mock Feedback Repository ---

type mockFeedbackRepository struct {
	mock.Mock
}

func (m *mockFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

// --- Mock Mailer ---

type sentMail struct {
	to      string
	subject string
	body    string
}

// recordingMailer captures Send calls; enabled controls whether it
// reports real delivery.
type recordingMailer struct {
	enabled bool
	sent    []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) Enabled() bool { return m.enabled }

// --- Test Helpers ---

const testAdminEmail = "admin@healthchatbot.com"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-key-for-testing", 24*time.Hour, 15*time.Minute)
}

func newTestPolicy() *auth.Policy {
	return auth.NewPolicy(testAdminEmail)
}

// newTestEventProducer uses an async writer so publishes never block on
// an unreachable broker; publish failures are non-fatal in all services.
func newTestEventProducer() *event.Producer {
	logger := newTestLogger()
	cfg := appkafka.DefaultProducerConfig([]string{"localhost:9092"})
	cfg.Async = true
	return event.NewProducer(appkafka.NewProducer(cfg, logger), logger)
}

func newTestAuthService(userRepo *mockUserRepository, otpRepo *mockOTPRepository) *AuthService {
	logger := newTestLogger()
	return newTestAuthServiceWith(userRepo, otpRepo, newTestPolicy(), mailer.NewLogMailer(logger))
}

func newTestAuthServiceWith(userRepo *mockUserRepository, otpRepo *mockOTPRepository, policy *auth.Policy, mail mailer.Mailer) *AuthService {
	logger := newTestLogger()
	return NewAuthService(
		userRepo,
		otpRepo,
		newTestTokenManager(),
		policy,
		mail,
		newTestEventProducer(),
		logger,
		10*time.Minute,
		true,
	)
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func activeUser(email, role string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           "u-" + email,
		Email:        email,
		Name:         "Test User",
		PasswordHash: hashForTest("password123"),
		Role:         role,
		Avatar:       "T",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
