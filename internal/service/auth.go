package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShanmukPranay/Health-Chatbot/internal/auth"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
	"github.com/ShanmukPranay/Health-Chatbot/internal/event"
	"github.com/ShanmukPranay/Health-Chatbot/internal/mailer"
	"github.com/ShanmukPranay/Health-Chatbot/internal/repository"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 6

// AuthService implements account, session and password-reset operations.
type AuthService struct {
	userRepo  repository.UserRepository
	otpRepo   repository.OTPRepository
	tokens    *auth.TokenManager
	policy    *auth.Policy
	mail      mailer.Mailer
	producer  *event.Producer
	logger    *slog.Logger
	otpExpiry time.Duration
	echoCodes bool
	now       func() time.Time
}

// NewAuthService creates a new auth service. When echoCodes is true and
// the mailer is not configured, RequestReset returns the generated code
// to the caller instead of delivering it.
func NewAuthService(
	userRepo repository.UserRepository,
	otpRepo repository.OTPRepository,
	tokens *auth.TokenManager,
	policy *auth.Policy,
	mail mailer.Mailer,
	producer *event.Producer,
	logger *slog.Logger,
	otpExpiry time.Duration,
	echoCodes bool,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		otpRepo:   otpRepo,
		tokens:    tokens,
		policy:    policy,
		mail:      mail,
		producer:  producer,
		logger:    logger,
		otpExpiry: otpExpiry,
		echoCodes: echoCodes,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// --- Input/Output types ---

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Session is an issued session token with its lifetime.
type Session struct {
	Token     string
	ExpiresIn time.Duration
}

// ResetRequest is the outcome of RequestReset. Code is populated only
// when delivery is simulated and echo is enabled.
type ResetRequest struct {
	EmailSent bool
	Code      string
}

// UpdateProfileInput holds the parameters for updating a profile.
type UpdateProfileInput struct {
	Name *string
}

// --- Account operations ---

// Register creates a new account and opens a session for it. The role is
// assigned by policy from the email alone; clients never choose a role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *Session, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if name == "" {
		return nil, nil, apperrors.Validation("name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		Role:         s.policy.RoleFor(email),
		Avatar:       domain.DefaultAvatar(name),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.openSession(user)
	if err != nil {
		return nil, nil, err
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	)

	return user, session, nil
}

// Login authenticates an account by email and password. Unknown emails
// and wrong passwords fail identically so callers cannot probe which
// accounts exist. A successful login refreshes UpdatedAt; it never
// touches the role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, apperrors.InvalidCredentials()
		}
		return nil, nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.InvalidCredentials()
	}

	if !user.IsActive {
		return nil, nil, apperrors.AccountDisabled()
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("touch user on login: %w", err)
	}

	session, err := s.openSession(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, session, nil
}

// GetProfile returns the account identified by ID.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies profile changes. Renaming recomputes the default
// avatar.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		user.Name = name
		user.Avatar = domain.DefaultAvatar(name)
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated", slog.String("user_id", user.ID))

	return user, nil
}

// --- Password reset ---

// RequestReset issues a fresh one-time code for the account, replacing
// any outstanding unconsumed codes for it. The code is emailed when a
// mailer is configured, otherwise delivery is simulated.
func (s *AuthService) RequestReset(ctx context.Context, email string) (*ResetRequest, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := s.otpRepo.DeleteUnconsumed(ctx, email, domain.PurposePasswordReset); err != nil {
		return nil, fmt.Errorf("clear outstanding codes: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := s.now().UTC()
	otp := &domain.OneTimeCode{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Email:     email,
		Code:      code,
		Purpose:   domain.PurposePasswordReset,
		ExpiresAt: now.Add(s.otpExpiry),
		Consumed:  false,
		CreatedAt: now,
	}

	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	// Delivery always goes through the mailer; a simulated mailer logs
	// the message instead of sending it and reports Enabled() == false,
	// so EmailSent tells the caller whether real delivery was attempted.
	result := &ResetRequest{}
	subject := "Your password reset code"
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your password reset code is <b>%s</b>. It expires in %d minutes.</p>",
		user.Name, code, int(s.otpExpiry.Minutes()))
	if err := s.mail.Send(ctx, email, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "failed to send reset email",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
	} else if s.mail.Enabled() {
		result.EmailSent = true
	}
	if !result.EmailSent && s.echoCodes {
		result.Code = code
	}

	if err := s.producer.PublishPasswordResetRequested(ctx, user.ID, email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish password reset event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("user_id", user.ID),
		slog.String("email", email),
		slog.Bool("email_sent", result.EmailSent),
	)

	return result, nil
}

// VerifyReset exchanges a valid one-time code for a short-lived reset
// token. Codes are single use: a matching code is consumed whether it is
// still live or already past its expiry.
func (s *AuthService) VerifyReset(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return "", apperrors.Validation("email and code are required")
	}

	otp, err := s.otpRepo.FindActive(ctx, email, code, domain.PurposePasswordReset)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", apperrors.InvalidCode()
		}
		return "", fmt.Errorf("find code: %w", err)
	}

	if !otp.IsValid(s.now().UTC()) {
		// Burn the expired code so it cannot be retried.
		if err := s.otpRepo.Consume(ctx, otp.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to consume expired code",
				slog.String("otp_id", otp.ID),
				slog.String("error", err.Error()),
			)
		}
		return "", apperrors.Expired("code")
	}

	if err := s.otpRepo.Consume(ctx, otp.ID); err != nil {
		return "", fmt.Errorf("consume code: %w", err)
	}

	token, err := s.tokens.IssueResetToken(email)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}

	s.logger.InfoContext(ctx, "reset code verified", slog.String("email", email))

	return token, nil
}

// CompleteReset sets a new password for the account named in a reset
// token. Session tokens are rejected here: only tokens minted by
// VerifyReset carry the reset purpose.
func (s *AuthService) CompleteReset(ctx context.Context, resetToken, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	claims, err := s.tokens.Verify(resetToken, auth.PurposePasswordReset)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("user", claims.Email)
		}
		return fmt.Errorf("get user by email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	user.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// --- Role management ---

// ChangeRole assigns a new role to the target account, subject to the
// authorization policy.
func (s *AuthService) ChangeRole(ctx context.Context, caller *domain.User, targetEmail, newRole string) (*domain.User, error) {
	targetEmail = normalizeEmail(targetEmail)

	if err := s.policy.AuthorizeRoleChange(caller, targetEmail, newRole); err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByEmail(ctx, targetEmail)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("user", targetEmail)
		}
		return nil, fmt.Errorf("get target user: %w", err)
	}

	oldRole := target.Role
	target.Role = newRole
	target.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if err := s.producer.PublishRoleChanged(ctx, target, oldRole, caller.Email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish role changed event",
			slog.String("user_id", target.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "role changed",
		slog.String("target", target.Email),
		slog.String("old_role", oldRole),
		slog.String("new_role", newRole),
		slog.String("changed_by", caller.Email),
	)

	return target, nil
}

// --- Bootstrap ---

// EnsureAccount creates the account at startup if it does not already
// exist. The role comes from policy, so calling this with the designated
// admin email provisions the admin. When the account exists but policy
// entitles it to a higher role, the role is corrected. Existing
// passwords are never touched.
func (s *AuthService) EnsureAccount(ctx context.Context, email, name, password string) error {
	email = normalizeEmail(email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		wantRole := s.policy.RoleFor(email)
		if wantRole == domain.RoleAdmin && existing.Role != domain.RoleAdmin {
			existing.Role = domain.RoleAdmin
			existing.UpdatedAt = s.now().UTC()
			if err := s.userRepo.Update(ctx, existing); err != nil {
				return fmt.Errorf("restore admin role: %w", err)
			}
			s.logger.InfoContext(ctx, "admin role restored", slog.String("email", email))
		}
		return nil
	}
	if !apperrors.IsNotFound(err) {
		return fmt.Errorf("look up account %s: %w", email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		Role:         s.policy.RoleFor(email),
		Avatar:       domain.DefaultAvatar(name),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration; the account exists.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("create account %s: %w", email, err)
	}

	s.logger.InfoContext(ctx, "account provisioned",
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	)
	return nil
}

// --- helpers ---

func (s *AuthService) openSession(user *domain.User) (*Session, error) {
	token, expiresIn, err := s.tokens.IssueSessionToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &Session{Token: token, ExpiresIn: expiresIn}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.Validation("email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return apperrors.Validation("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// generateCode returns a 6-digit numeric code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
