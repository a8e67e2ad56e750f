package auth

import (
	"errors"
	"testing"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
)

func TestAllowedIsSetMembership(t *testing.T) {
	required := []models.Role{models.RoleMembre, models.RoleAdmin}

	for _, role := range models.AllRoles {
		want := role == models.RoleMembre || role == models.RoleAdmin
		if got := Allowed(role, required...); got != want {
			t.Errorf("Allowed(%s, membre|admin) = %v, want %v", role, got, want)
		}
	}

	if Allowed(models.RoleAdmin) {
		t.Errorf("empty required set must deny every role")
	}
}

func TestLooksLikeSystemAdmin(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
		want    bool
	}{
		{"email contains admin", &models.Profile{Email: "admin@efrei.net", Role: models.RoleVisiteur}, true},
		{"email contains admin mid-string", &models.Profile{Email: "webadmin@club.fr", Role: models.RoleAthlete}, true},
		{"admin role with Admin name", &models.Profile{Email: "boss@club.fr", Role: models.RoleAdmin, FullName: "Admin"}, true},
		{"admin role with other name", &models.Profile{Email: "boss@club.fr", Role: models.RoleAdmin, FullName: "Sophie Martin"}, false},
		{"regular member", &models.Profile{Email: "sophie@club.fr", Role: models.RoleMembre, FullName: "Sophie Martin"}, false},
		{"nil profile", nil, false},
	}

	for _, tt := range tests {
		if got := LooksLikeSystemAdmin(tt.profile); got != tt.want {
			t.Errorf("%s: LooksLikeSystemAdmin = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCanChangeRole(t *testing.T) {
	admin := &models.Profile{ID: 1, Role: models.RoleAdmin}
	member := &models.Profile{ID: 2, Role: models.RoleMembre}
	target := &models.Profile{ID: 3, Role: models.RoleVisiteur}
	protected := &models.Profile{ID: 4, Role: models.RoleAdmin, IsSystemAdmin: true}

	if err := CanChangeRole(admin, target, models.RoleAthlete); err != nil {
		t.Fatalf("admin promoting visiteur: unexpected error %v", err)
	}
	if err := CanChangeRole(admin, target, models.RoleAdmin); err != nil {
		t.Fatalf("admin promoting to admin: unexpected error %v", err)
	}

	if err := CanChangeRole(member, target, models.RoleAthlete); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("non-admin actor: got %v, want ErrNotAdmin", err)
	}
	if err := CanChangeRole(nil, target, models.RoleAthlete); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("nil actor: got %v, want ErrNotAdmin", err)
	}

	if err := CanChangeRole(admin, protected, models.RoleVisiteur); !errors.Is(err, apperrors.ErrSystemAdminLocked) {
		t.Fatalf("system admin target: got %v, want ErrSystemAdminLocked", err)
	}

	if err := CanChangeRole(admin, target, models.Role("superuser")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("invalid role: got %v, want ErrInvalidRole", err)
	}
}
