package auth

import (
	"fmt"
	"strings"

	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	apperrors "github.com/ShanmukPranay/Health-Chatbot/internal/errors"
)

// Policy is the pure authorization decision logic. It is configured with
// the one designated admin email and performs no I/O.
type Policy struct {
	adminEmail string
}

// NewPolicy creates a policy bound to the designated admin email. The
// email is lowercased so it compares equal to normalized account emails
// however it was configured.
func NewPolicy(adminEmail string) *Policy {
	return &Policy{adminEmail: strings.ToLower(strings.TrimSpace(adminEmail))}
}

// AdminEmail returns the designated admin email.
func (p *Policy) AdminEmail() string {
	return p.adminEmail
}

// RoleFor returns the role a freshly registered account receives. Exactly
// the designated admin email gets admin; everyone else starts regular.
// Registration can never directly create a premium account.
func (p *Policy) RoleFor(email string) string {
	if email == p.adminEmail {
		return domain.RoleAdmin
	}
	return domain.RoleRegular
}

// RequireAdmin denies any caller that is not an active admin.
func (p *Policy) RequireAdmin(caller *domain.User) error {
	if !caller.IsActive {
		return apperrors.AccountDisabled()
	}
	if caller.Role != domain.RoleAdmin {
		return apperrors.Unauthorized("admin access required")
	}
	return nil
}

// AuthorizeRoleChange applies the role-change rules in priority order and
// returns the first violation found:
//
//  1. granting admin to anyone but the designated admin email is denied
//  2. the designated admin's role is immutable
//  3. an admin may not demote themselves
//  4. the requested role must be one of the valid values
//
// The admin-only gate on the endpoint itself is RequireAdmin, run before
// this.
func (p *Policy) AuthorizeRoleChange(caller *domain.User, targetEmail, newRole string) error {
	if newRole == domain.RoleAdmin && targetEmail != p.adminEmail {
		return apperrors.Unauthorized(fmt.Sprintf("only %s can be admin", p.adminEmail))
	}
	if targetEmail == p.adminEmail && newRole != domain.RoleAdmin {
		return apperrors.Unauthorized(fmt.Sprintf("cannot change role of %s", p.adminEmail))
	}
	if targetEmail == caller.Email && newRole != domain.RoleAdmin {
		return apperrors.Unauthorized("cannot remove admin role from yourself")
	}
	if !domain.IsValidRole(newRole) {
		return apperrors.InvalidRole(newRole)
	}
	return nil
}
