package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/auth"
	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
)

// profileStore is the subset of ProfileRepository used by ProfileService
type profileStore interface {
	Create(ctx context.Context, profile *models.Profile) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	SetSystemAdmin(ctx context.Context, id int64, isSystemAdmin bool) error
	UpdateFullName(ctx context.Context, id int64, fullName string) error
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	ResolveProfile(ctx context.Context, email, fullName string) (*models.Profile, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	UpdateRole(ctx context.Context, actorID, targetID int64, newRole models.Role) (*models.Profile, error)
	SyncProfiles(ctx context.Context) (scanned, updated int, err error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	profileRepo profileStore
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo profileStore, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// fullNameFromEmail derives a display name from the local part of an
// email address when no name was provided.
func fullNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return local
}

// ResolveProfile returns the profile for an authenticated email,
// creating one with the default role on first sight. Resolution never
// blocks a page render: if the store is unreachable the caller gets an
// ephemeral profile carrying the default role instead of an error.
func (s *profileServiceImpl) ResolveProfile(ctx context.Context, email, fullName string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err == nil {
		return profile, nil
	}

	if !errors.Is(err, apperrors.ErrProfileNotFound) {
		s.logger.Error().Err(err).Str("email", email).Msg("Profile lookup failed, degrading to default role")
		return s.ephemeralProfile(email, fullName), nil
	}

	if fullName == "" {
		fullName = fullNameFromEmail(email)
	}

	newProfile := &models.Profile{
		Email:    email,
		FullName: fullName,
		Role:     models.RoleVisiteur,
	}

	id, err := s.profileRepo.Create(ctx, newProfile)
	if err != nil {
		// A concurrent first login may have created the row between
		// our read and write; re-read before giving up.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			if existing, rerr := s.profileRepo.GetByEmail(ctx, email); rerr == nil {
				return existing, nil
			}
		}
		s.logger.Error().Err(err).Str("email", email).Msg("Profile creation failed, degrading to default role")
		return s.ephemeralProfile(email, fullName), nil
	}

	newProfile.ID = id
	s.logger.Info().Int64("profileID", id).Str("email", email).Msg("Created profile on first login")
	return newProfile, nil
}

func (s *profileServiceImpl) ephemeralProfile(email, fullName string) *models.Profile {
	if fullName == "" {
		fullName = fullNameFromEmail(email)
	}
	return &models.Profile{
		Email:    email,
		FullName: fullName,
		Role:     models.RoleVisiteur,
	}
}

// GetProfile retrieves a profile by ID
func (s *profileServiceImpl) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding profile: %w", err)
	}
	return profile, nil
}

// ListProfiles retrieves all profiles ordered by name
func (s *profileServiceImpl) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	return profiles, nil
}

// UpdateRole changes a member's role on behalf of an admin. System
// admin accounts are locked out of this path entirely.
func (s *profileServiceImpl) UpdateRole(ctx context.Context, actorID, targetID int64, newRole models.Role) (*models.Profile, error) {
	actor, err := s.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("error finding acting profile: %w", err)
	}

	target, err := s.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("error finding target profile: %w", err)
	}

	if err := auth.CanChangeRole(actor, target, newRole); err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, fmt.Errorf("error updating role: %w", err)
	}

	s.logger.Info().
		Int64("actorID", actorID).
		Int64("targetID", targetID).
		Str("newRole", string(newRole)).
		Msg("Role updated")

	target.Role = newRole
	return target, nil
}

// SyncProfiles walks all profiles and repairs derived fields: the
// system-admin flag for accounts matching the legacy heuristic, and
// missing display names. The pass is idempotent.
func (s *profileServiceImpl) SyncProfiles(ctx context.Context) (int, int, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing profiles for sync: %w", err)
	}

	updated := 0
	for _, p := range profiles {
		changed := false

		if auth.LooksLikeSystemAdmin(p) && !p.IsSystemAdmin {
			if err := s.profileRepo.SetSystemAdmin(ctx, p.ID, true); err != nil {
				return len(profiles), updated, fmt.Errorf("error flagging system admin: %w", err)
			}
			changed = true
		}

		if strings.TrimSpace(p.FullName) == "" {
			if err := s.profileRepo.UpdateFullName(ctx, p.ID, fullNameFromEmail(p.Email)); err != nil {
				return len(profiles), updated, fmt.Errorf("error backfilling full name: %w", err)
			}
			changed = true
		}

		if changed {
			updated++
		}
	}

	s.logger.Info().Int("scanned", len(profiles)).Int("updated", updated).Msg("Profile sync completed")
	return len(profiles), updated, nil
}
