package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShanmukPranay/Health-Chatbot/internal/auth"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
)

// --- Register ---

func TestRegister_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "alice@example.com" &&
			u.Role == domain.RoleRegular &&
			u.Avatar == "A" &&
			u.IsActive
	})).Return(nil)

	user, session, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Alice@Example.com",
		Name:     "alice",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized")
	assert.Equal(t, domain.RoleRegular, user.Role)
	assert.Equal(t, "A", user.Avatar)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, 24*time.Hour, session.ExpiresIn)

	// The issued token is a usable session token.
	claims, err := newTestTokenManager().Verify(session.Token, "")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	userRepo.AssertExpectations(t)
}

func TestRegister_DesignatedAdminGetsAdminRole(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin
	})).Return(nil)

	user, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    testAdminEmail,
		Name:     "Admin",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	userRepo.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.Conflict("user", "email", "alice@example.com"))

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "secret1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegister_ValidationFailures(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}},
		{"email without at sign", RegisterInput{Email: "alice.example.com", Name: "A", Password: "secret1"}},
		{"email without dot", RegisterInput{Email: "alice@example", Name: "A", Password: "secret1"}},
		{"missing name", RegisterInput{Email: "a@b.com", Password: "secret1"}},
		{"short password", RegisterInput{Email: "a@b.com", Name: "A", Password: "five5"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

// --- Login ---

func TestLogin_Success_TouchesUpdatedAtNotRole(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	u := activeUser("premium@example.com", domain.RolePremium)
	before := u.UpdatedAt.Add(-time.Hour)
	u.UpdatedAt = before

	userRepo.On("GetByEmail", mock.Anything, "premium@example.com").Return(u, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(got *domain.User) bool {
		return got.Role == domain.RolePremium && got.UpdatedAt.After(before)
	})).Return(nil)

	user, session, err := svc.Login(context.Background(), "premium@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, domain.RolePremium, user.Role, "login must never change the stored role")
	assert.NotEmpty(t, session.Token)
	userRepo.AssertExpectations(t)
}

func TestLogin_UnknownEmailAndWrongPasswordFailIdentically(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound)
	_, _, errUnknown := svc.Login(context.Background(), "ghost@example.com", "whatever")

	u := activeUser("alice@example.com", domain.RoleRegular)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)
	_, _, errWrongPass := svc.Login(context.Background(), "alice@example.com", "not-the-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error(),
		"failure responses must not reveal whether the account exists")
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	u := activeUser("locked@example.com", domain.RoleRegular)
	u.IsActive = false
	userRepo.On("GetByEmail", mock.Anything, "locked@example.com").Return(u, nil)

	_, _, err := svc.Login(context.Background(), "locked@example.com", "password123")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestLogin_DeactivatedAccountWithWrongPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	u := activeUser("locked@example.com", domain.RoleRegular)
	u.IsActive = false
	userRepo.On("GetByEmail", mock.Anything, "locked@example.com").Return(u, nil)

	// Credentials are checked before account status.
	_, _, err := svc.Login(context.Background(), "locked@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

// --- RequestReset ---

func TestRequestReset_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound)

	_, err := svc.RequestReset(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRequestReset_IssuesFreshCodeAndClearsOldOnes(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	u := activeUser("alice@example.com", domain.RoleRegular)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)
	otpRepo.On("DeleteUnconsumed", mock.Anything, "alice@example.com", domain.PurposePasswordReset).Return(nil)
	otpRepo.On("Create", mock.Anything, mock.MatchedBy(func(otp *domain.OneTimeCode) bool {
		return otp.Email == "alice@example.com" &&
			otp.Purpose == domain.PurposePasswordReset &&
			!otp.Consumed &&
			otp.ExpiresAt.After(otp.CreatedAt)
	})).Return(nil)

	result, err := svc.RequestReset(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, result.EmailSent, "log mailer simulates delivery")
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), result.Code)
	assert.GreaterOrEqual(t, result.Code, "100000")
	otpRepo.AssertExpectations(t)
}

// --- VerifyReset ---

func TestVerifyReset_UnknownCode(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	otpRepo.On("FindActive", mock.Anything, "alice@example.com", "000000", domain.PurposePasswordReset).
		Return(nil, apperrors.ErrNotFound)

	_, err := svc.VerifyReset(context.Background(), "alice@example.com", "000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCode)
}

func TestVerifyReset_ExpiredCodeIsConsumed(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	now := time.Now().UTC()
	otp := &domain.OneTimeCode{
		ID:        "otp-1",
		Email:     "alice@example.com",
		Code:      "123456",
		Purpose:   domain.PurposePasswordReset,
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-20 * time.Minute),
	}
	otpRepo.On("FindActive", mock.Anything, "alice@example.com", "123456", domain.PurposePasswordReset).
		Return(otp, nil)
	otpRepo.On("Consume", mock.Anything, "otp-1").Return(nil)

	_, err := svc.VerifyReset(context.Background(), "alice@example.com", "123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExpired)
	otpRepo.AssertCalled(t, "Consume", mock.Anything, "otp-1")
}

func TestVerifyReset_ValidCodeYieldsResetToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	now := time.Now().UTC()
	otp := &domain.OneTimeCode{
		ID:        "otp-1",
		Email:     "alice@example.com",
		Code:      "123456",
		Purpose:   domain.PurposePasswordReset,
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}
	otpRepo.On("FindActive", mock.Anything, "alice@example.com", "123456", domain.PurposePasswordReset).
		Return(otp, nil)
	otpRepo.On("Consume", mock.Anything, "otp-1").Return(nil)

	token, err := svc.VerifyReset(context.Background(), "alice@example.com", "123456")
	require.NoError(t, err)

	claims, err := newTestTokenManager().Verify(token, auth.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	// A reset token cannot stand in for a session token.
	_, err = newTestTokenManager().Verify(token, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformed)
}

// --- CompleteReset ---

func TestCompleteReset_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	u := activeUser("alice@example.com", domain.RoleRegular)
	oldHash := u.PasswordHash
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(got *domain.User) bool {
		return got.PasswordHash != oldHash &&
			bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("brand-new-pass")) == nil
	})).Return(nil)

	token, err := newTestTokenManager().IssueResetToken("alice@example.com")
	require.NoError(t, err)

	err = svc.CompleteReset(context.Background(), token, "brand-new-pass")
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestCompleteReset_RejectsSessionToken(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	token, _, err := newTestTokenManager().IssueSessionToken("alice@example.com")
	require.NoError(t, err)

	err = svc.CompleteReset(context.Background(), token, "brand-new-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformed)
}

func TestCompleteReset_ExpiredToken(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	past := time.Now().Add(-time.Hour)
	expiredIssuer := auth.NewTokenManager("test-secret-key-for-testing", 24*time.Hour, 15*time.Minute).
		WithClock(func() time.Time { return past })
	token, err := expiredIssuer.IssueResetToken("alice@example.com")
	require.NoError(t, err)

	err = svc.CompleteReset(context.Background(), token, "brand-new-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExpired)
}

func TestCompleteReset_TamperedToken(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	other := auth.NewTokenManager("a-completely-different-secret", 24*time.Hour, 15*time.Minute)
	token, err := other.IssueResetToken("alice@example.com")
	require.NoError(t, err)

	err = svc.CompleteReset(context.Background(), token, "brand-new-pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformed)
}

func TestCompleteReset_ShortPassword(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	token, err := newTestTokenManager().IssueResetToken("alice@example.com")
	require.NoError(t, err)

	err = svc.CompleteReset(context.Background(), token, "tiny")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// --- ChangeRole ---

func TestChangeRole_NonAdminCaller(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	caller := activeUser("regular@example.com", domain.RoleRegular)
	_, err := svc.ChangeRole(context.Background(), caller, "bob@example.com", domain.RolePremium)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestChangeRole_AdminRoleReservedForDesignatedEmail(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	caller := activeUser(testAdminEmail, domain.RoleAdmin)
	_, err := svc.ChangeRole(context.Background(), caller, "bob@example.com", domain.RoleAdmin)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestChangeRole_DesignatedAdminIsImmutable(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	caller := activeUser(testAdminEmail, domain.RoleAdmin)
	_, err := svc.ChangeRole(context.Background(), caller, testAdminEmail, domain.RoleRegular)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestChangeRole_InvalidRole(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	caller := activeUser(testAdminEmail, domain.RoleAdmin)
	_, err := svc.ChangeRole(context.Background(), caller, "bob@example.com", "superuser")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestChangeRole_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestAuthService(userRepo, new(mockOTPRepository))

	caller := activeUser(testAdminEmail, domain.RoleAdmin)
	target := activeUser("bob@example.com", domain.RoleRegular)

	userRepo.On("GetByEmail", mock.Anything, "bob@example.com").Return(target, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(got *domain.User) bool {
		return got.Role == domain.RolePremium
	})).Return(nil)

	updated, err := svc.ChangeRole(context.Background(), caller, "bob@example.com", domain.RolePremium)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePremium, updated.Role)
	userRepo.AssertExpectations(t)
}

func TestChangeRole_TargetNotFound(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestAuthService(userRepo, new(mockOTPRepository))

	caller := activeUser(testAdminEmail, domain.RoleAdmin)
	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound)

	_, err := svc.ChangeRole(context.Background(), caller, "ghost@example.com", domain.RolePremium)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- UpdateProfile ---

func TestUpdateProfile_RenameRecomputesAvatar(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestAuthService(userRepo, new(mockOTPRepository))

	u := activeUser("alice@example.com", domain.RoleRegular)
	userRepo.On("GetByID", mock.Anything, u.ID).Return(u, nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	name := "bella"
	updated, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "bella", updated.Name)
	assert.Equal(t, "B", updated.Avatar)
}

// --- Full reset flow ---

// A code can be exchanged exactly once: the second verify attempt finds
// nothing and fails as invalid.
func TestResetFlow_CodeIsSingleUse(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	svc := newTestAuthService(userRepo, otpRepo)

	now := time.Now().UTC()
	otp := &domain.OneTimeCode{
		ID:        "otp-1",
		Email:     "alice@example.com",
		Code:      "654321",
		Purpose:   domain.PurposePasswordReset,
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}

	otpRepo.On("FindActive", mock.Anything, "alice@example.com", "654321", domain.PurposePasswordReset).
		Return(otp, nil).Once()
	otpRepo.On("Consume", mock.Anything, "otp-1").Return(nil).Once()
	otpRepo.On("FindActive", mock.Anything, "alice@example.com", "654321", domain.PurposePasswordReset).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := svc.VerifyReset(context.Background(), "alice@example.com", "654321")
	require.NoError(t, err)

	_, err = svc.VerifyReset(context.Background(), "alice@example.com", "654321")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCode)
	otpRepo.AssertExpectations(t)
}

// --- EnsureAccount ---

func TestEnsureAccount_MixedCaseConfiguredAdminEmail(t *testing.T) {
	// The configured admin address may carry any casing; provisioning
	// must still land on the normalized email with the admin role.
	userRepo := new(mockUserRepository)
	svc := newTestAuthServiceWith(userRepo, new(mockOTPRepository),
		auth.NewPolicy("Admin@HealthChatbot.COM"), &recordingMailer{})

	userRepo.On("GetByEmail", mock.Anything, testAdminEmail).
		Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == testAdminEmail && u.Role == domain.RoleAdmin && u.IsActive
	})).Return(nil)

	err := svc.EnsureAccount(context.Background(), "Admin@HealthChatbot.COM", "Admin", "startup-pass")
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestEnsureAccount_ExistingAccountUntouched(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestAuthService(userRepo, new(mockOTPRepository))

	userRepo.On("GetByEmail", mock.Anything, testAdminEmail).
		Return(activeUser(testAdminEmail, domain.RoleAdmin), nil)

	err := svc.EnsureAccount(context.Background(), testAdminEmail, "Admin", "new-password")
	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEnsureAccount_RestoresDriftedAdminRole(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestAuthService(userRepo, new(mockOTPRepository))

	drifted := activeUser(testAdminEmail, domain.RoleRegular)
	userRepo.On("GetByEmail", mock.Anything, testAdminEmail).Return(drifted, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == testAdminEmail && u.Role == domain.RoleAdmin
	})).Return(nil)

	err := svc.EnsureAccount(context.Background(), testAdminEmail, "Admin", "startup-pass")
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

// --- Mail delivery ---

func TestRequestReset_SimulatedDeliveryStillSends(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	mail := &recordingMailer{enabled: false}
	svc := newTestAuthServiceWith(userRepo, otpRepo, newTestPolicy(), mail)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(activeUser("alice@example.com", domain.RoleRegular), nil)
	otpRepo.On("DeleteUnconsumed", mock.Anything, "alice@example.com", domain.PurposePasswordReset).Return(nil)
	otpRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RequestReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	// The mailer sees the message even when delivery is simulated.
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "alice@example.com", mail.sent[0].to)
	assert.Contains(t, mail.sent[0].body, result.Code)
	assert.False(t, result.EmailSent)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), result.Code)
}

func TestRequestReset_ConfiguredMailerHidesCode(t *testing.T) {
	userRepo := new(mockUserRepository)
	otpRepo := new(mockOTPRepository)
	mail := &recordingMailer{enabled: true}
	svc := newTestAuthServiceWith(userRepo, otpRepo, newTestPolicy(), mail)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(activeUser("alice@example.com", domain.RoleRegular), nil)
	otpRepo.On("DeleteUnconsumed", mock.Anything, "alice@example.com", domain.PurposePasswordReset).Return(nil)
	otpRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RequestReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	require.Len(t, mail.sent, 1)
	assert.True(t, result.EmailSent)
	assert.Empty(t, result.Code, "codes are never echoed when real delivery happened")
}

func TestCompleteReset_ShortPasswordReportedBeforeBadToken(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockOTPRepository))

	err := svc.CompleteReset(context.Background(), "not-even-a-token", "tiny")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NotErrorIs(t, err, apperrors.ErrMalformed)
}
