package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShanmukPranay/Health-Chatbot/internal/auth"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
	"github.com/ShanmukPranay/Health-Chatbot/internal/repository"
)

// recentOTPLimit caps how many codes the admin user-detail view shows.
const recentOTPLimit = 5

// recentChatLimit caps how many chats the admin user-detail view shows.
const recentChatLimit = 10

// StatsService aggregates usage statistics and backs the admin surface.
type StatsService struct {
	userRepo repository.UserRepository
	chatRepo repository.ChatRepository
	otpRepo  repository.OTPRepository
	policy   *auth.Policy
	logger   *slog.Logger
	now      func() time.Time
}

// NewStatsService creates a new statistics service.
func NewStatsService(
	userRepo repository.UserRepository,
	chatRepo repository.ChatRepository,
	otpRepo repository.OTPRepository,
	policy *auth.Policy,
	logger *slog.Logger,
) *StatsService {
	return &StatsService{
		userRepo: userRepo,
		chatRepo: chatRepo,
		otpRepo:  otpRepo,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// SystemStats is the public usage snapshot.
type SystemStats struct {
	TotalUsers      int            `json:"total_users"`
	ActiveToday     int            `json:"active_today"`
	TotalChats      int            `json:"total_chats"`
	ChatsToday      int            `json:"chats_today"`
	ChatsByCategory map[string]int `json:"chats_by_category"`
	UsersByRole     map[string]int `json:"users_by_role"`
}

// DashboardUser is one row of the admin dashboard.
type DashboardUser struct {
	User         domain.User `json:"user"`
	ChatCount    int         `json:"chat_count"`
	LastActivity *time.Time  `json:"last_activity,omitempty"`
}

// Dashboard is the admin overview: every account plus aggregate stats.
type Dashboard struct {
	Users []DashboardUser `json:"users"`
	Stats SystemStats     `json:"stats"`
}

// UserDetail is the admin drill-down for one account.
type UserDetail struct {
	User        domain.User          `json:"user"`
	RecentChats []domain.Chat        `json:"recent_chats"`
	RecentCodes []domain.OneTimeCode `json:"recent_codes"`
}

// SystemStats computes the public usage snapshot. "Today" starts at
// midnight UTC.
func (s *StatsService) SystemStats(ctx context.Context) (*SystemStats, error) {
	startOfDay := s.startOfToday()

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	activeToday, err := s.userRepo.CountActiveSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}

	totalChats, err := s.chatRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chats: %w", err)
	}

	chatsToday, err := s.chatRepo.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("count chats today: %w", err)
	}

	byCategory, err := s.chatRepo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chats by category: %w", err)
	}

	byRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}

	return &SystemStats{
		TotalUsers:      totalUsers,
		ActiveToday:     activeToday,
		TotalChats:      totalChats,
		ChatsToday:      chatsToday,
		ChatsByCategory: byCategory,
		UsersByRole:     byRole,
	}, nil
}

// Dashboard builds the admin overview for the caller. Only admins may
// view it.
func (s *StatsService) Dashboard(ctx context.Context, caller *domain.User) (*Dashboard, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	rows := make([]DashboardUser, 0, len(users))
	for i := range users {
		u := users[i]

		count, err := s.chatRepo.CountByUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("count chats for %s: %w", u.ID, err)
		}

		row := DashboardUser{User: u, ChatCount: count}
		if count > 0 {
			last, err := s.chatRepo.LastByUser(ctx, u.ID)
			if err != nil && !apperrors.IsNotFound(err) {
				return nil, fmt.Errorf("last chat for %s: %w", u.ID, err)
			}
			if last != nil {
				row.LastActivity = &last.CreatedAt
			}
		}
		rows = append(rows, row)
	}

	stats, err := s.SystemStats(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Users: rows, Stats: *stats}, nil
}

// UserDetail returns one account with its recent chats and reset codes.
// Only admins may view it.
func (s *StatsService) UserDetail(ctx context.Context, caller *domain.User, email string) (*UserDetail, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("user", email)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	chats, err := s.chatRepo.ListByUser(ctx, user.ID, recentChatLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent chats: %w", err)
	}

	codes, err := s.otpRepo.ListByUser(ctx, user.ID, recentOTPLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent codes: %w", err)
	}

	return &UserDetail{
		User:        *user,
		RecentChats: chats,
		RecentCodes: codes,
	}, nil
}

// ListUsers returns every account with the role distribution. Only
// admins may call it.
func (s *StatsService) ListUsers(ctx context.Context, caller *domain.User) ([]domain.User, map[string]int, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}

	byRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count users by role: %w", err)
	}

	return users, byRole, nil
}

func (s *StatsService) startOfToday() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
