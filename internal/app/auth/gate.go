package auth

import (
	"errors"
	"strings"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
)

// Gate errors
var (
	ErrInvalidRole = errors.New("invalid role")
	ErrNotAdmin    = errors.New("only admins can change roles")
)

// Allowed reports whether a role belongs to the required set. It is a
// pure membership test with no side effects; an empty required set
// denies everything.
func Allowed(role models.Role, required ...models.Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// IsSystemAdmin reports whether a profile is a protected system admin.
// The stored flag is authoritative; it is set at seed/sync time from
// the legacy heuristic below.
func IsSystemAdmin(p *models.Profile) bool {
	if p == nil {
		return false
	}
	return p.IsSystemAdmin
}

// LooksLikeSystemAdmin applies the legacy heuristic inherited from the
// original deployment: an email containing "admin", or an admin role
// paired with the display name "Admin". Substring matching is spoofable,
// so the result is only used to seed the is_system_admin flag, never
// checked directly at decision points.
func LooksLikeSystemAdmin(p *models.Profile) bool {
	if p == nil {
		return false
	}
	if strings.Contains(p.Email, "admin") {
		return true
	}
	return p.Role == models.RoleAdmin && p.FullName == "Admin"
}

// CanChangeRole decides whether actor may set target's role to newRole.
// Roles only change through this explicit admin action; profiles marked
// as system admins are immutable through the role-edit path regardless
// of who is asking.
func CanChangeRole(actor, target *models.Profile, newRole models.Role) error {
	if !newRole.IsValid() {
		return ErrInvalidRole
	}
	if actor == nil || actor.Role != models.RoleAdmin {
		return ErrNotAdmin
	}
	if IsSystemAdmin(target) {
		return apperrors.ErrSystemAdminLocked
	}
	return nil
}
