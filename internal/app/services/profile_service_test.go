package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
)

type fakeProfileStore struct {
	profiles map[int64]*models.Profile
	nextID   int64

	failReads  bool
	missOnce   bool
	failCreate error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[int64]*models.Profile{}, nextID: 1}
}

func (f *fakeProfileStore) add(p *models.Profile) *models.Profile {
	p.ID = f.nextID
	f.nextID++
	f.profiles[p.ID] = p
	return p
}

func (f *fakeProfileStore) Create(_ context.Context, profile *models.Profile) (int64, error) {
	if f.failCreate != nil {
		return 0, f.failCreate
	}
	for _, p := range f.profiles {
		if p.Email == profile.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	f.add(profile)
	return profile.ID, nil
}

func (f *fakeProfileStore) GetByID(_ context.Context, id int64) (*models.Profile, error) {
	if f.failReads {
		return nil, errors.New("store unavailable")
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	if f.failReads {
		return nil, errors.New("store unavailable")
	}
	if f.missOnce {
		f.missOnce = false
		return nil, apperrors.ErrProfileNotFound
	}
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (f *fakeProfileStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileStore) List(_ context.Context) ([]*models.Profile, error) {
	out := []*models.Profile{}
	for i := int64(1); i < f.nextID; i++ {
		if p, ok := f.profiles[i]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileStore) UpdateRole(_ context.Context, id int64, role models.Role) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

func (f *fakeProfileStore) SetSystemAdmin(_ context.Context, id int64, isSystemAdmin bool) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.IsSystemAdmin = isSystemAdmin
	return nil
}

func (f *fakeProfileStore) UpdateFullName(_ context.Context, id int64, fullName string) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.FullName = fullName
	return nil
}

func (f *fakeProfileStore) UpdatePassword(_ context.Context, id int64, hashedPassword string) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.Password = hashedPassword
	return nil
}

func (f *fakeProfileStore) UpdateLastLogin(_ context.Context, id int64) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	now := time.Now()
	p.LastLoginAt = &now
	return nil
}

func TestResolveProfileCreatesOnFirstLogin(t *testing.T) {
	store := newFakeProfileStore()
	svc := NewProfileService(store, zerolog.Nop())

	p, err := svc.ResolveProfile(context.Background(), "sophie.martin@efrei.net", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Role != models.RoleVisiteur {
		t.Fatalf("expected default role visiteur, got %s", p.Role)
	}
	if p.FullName != "sophie.martin" {
		t.Fatalf("expected name derived from email, got %q", p.FullName)
	}
	if p.ID == 0 {
		t.Fatal("expected persisted profile with an ID")
	}
}

func TestResolveProfileReturnsExisting(t *testing.T) {
	store := newFakeProfileStore()
	existing := store.add(&models.Profile{Email: "coach@club.fr", FullName: "Coach", Role: models.RoleMembre})
	svc := NewProfileService(store, zerolog.Nop())

	p, err := svc.ResolveProfile(context.Background(), "coach@club.fr", "Other Name")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != existing.ID || p.Role != models.RoleMembre {
		t.Fatalf("expected existing profile back, got %+v", p)
	}
}

func TestResolveProfileDegradesToVisiteurOnStoreFailure(t *testing.T) {
	store := newFakeProfileStore()
	store.failReads = true
	svc := NewProfileService(store, zerolog.Nop())

	p, err := svc.ResolveProfile(context.Background(), "anyone@club.fr", "")
	if err != nil {
		t.Fatalf("resolution must not propagate store errors, got %v", err)
	}
	if p.Role != models.RoleVisiteur {
		t.Fatalf("expected visiteur fallback, got %s", p.Role)
	}
	if p.ID != 0 {
		t.Fatal("fallback profile must be ephemeral")
	}
}

func TestResolveProfileRereadsAfterConcurrentCreate(t *testing.T) {
	// Losing the create race: the first read misses, the create
	// collides, the re-read must find the winner.
	store := newFakeProfileStore()
	winner := store.add(&models.Profile{Email: "race@club.fr", FullName: "Winner", Role: models.RoleVisiteur})
	store.missOnce = true
	store.failCreate = apperrors.ErrEmailAlreadyExists

	svc := NewProfileService(store, zerolog.Nop())

	p, err := svc.ResolveProfile(context.Background(), "race@club.fr", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != winner.ID {
		t.Fatalf("expected winner profile, got %+v", p)
	}
}

func TestUpdateRole(t *testing.T) {
	store := newFakeProfileStore()
	admin := store.add(&models.Profile{Email: "pres@club.fr", FullName: "Presidente", Role: models.RoleAdmin})
	member := store.add(&models.Profile{Email: "nageur@club.fr", FullName: "Nageur", Role: models.RoleAthlete})
	system := store.add(&models.Profile{Email: "root@club.fr", FullName: "Root", Role: models.RoleAdmin, IsSystemAdmin: true})

	svc := NewProfileService(store, zerolog.Nop())
	ctx := context.Background()

	updated, err := svc.UpdateRole(ctx, admin.ID, member.ID, models.RoleMembre)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Role != models.RoleMembre {
		t.Fatalf("expected membre, got %s", updated.Role)
	}

	if _, err := svc.UpdateRole(ctx, member.ID, admin.ID, models.RoleVisiteur); err == nil {
		t.Fatal("expected non-admin actor to be rejected")
	}

	if _, err := svc.UpdateRole(ctx, admin.ID, system.ID, models.RoleVisiteur); !errors.Is(err, apperrors.ErrSystemAdminLocked) {
		t.Fatalf("expected system admin to be locked, got %v", err)
	}
	if store.profiles[system.ID].Role != models.RoleAdmin {
		t.Fatal("system admin role must not change")
	}
}

func TestSyncProfilesIsIdempotent(t *testing.T) {
	store := newFakeProfileStore()
	store.add(&models.Profile{Email: "admin@club.fr", FullName: "Presidente", Role: models.RoleMembre})
	store.add(&models.Profile{Email: "nameless@club.fr", FullName: "", Role: models.RoleVisiteur})
	store.add(&models.Profile{Email: "ok@club.fr", FullName: "Ok", Role: models.RoleAthlete})

	svc := NewProfileService(store, zerolog.Nop())
	ctx := context.Background()

	scanned, updated, err := svc.SyncProfiles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if scanned != 3 || updated != 2 {
		t.Fatalf("expected 3 scanned / 2 updated, got %d/%d", scanned, updated)
	}
	if !store.profiles[1].IsSystemAdmin {
		t.Fatal("expected heuristic match to be flagged as system admin")
	}
	if store.profiles[2].FullName != "nameless" {
		t.Fatalf("expected backfilled name, got %q", store.profiles[2].FullName)
	}

	_, updated, err = svc.SyncProfiles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if updated != 0 {
		t.Fatalf("second pass must be a no-op, updated %d", updated)
	}
}
