package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/aquaclub/aquaclub/internal/app/auth"
	appModels "github.com/aquaclub/aquaclub/internal/app/models"
	appRepos "github.com/aquaclub/aquaclub/internal/app/repositories"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	pkgAuth "github.com/aquaclub/aquaclub/internal/pkg/auth"
)

// DefaultAdminEmail is the account created on first startup so the
// instance is administrable before any real user signs up.
const DefaultAdminEmail = "admin@aquaclub.fr"

// CreateDefaultData creates the default admin profile and a few sample
// events if they don't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	profileRepo := appRepos.NewProfileRepository(dbPool)
	eventRepo := appRepos.NewEventRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (admin profile, sample events)...")
	var finalErr error

	// --- Default admin profile --- //
	adminID, err := createDefaultAdmin(ctx, profileRepo, lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	// --- Sample events --- //
	if adminID > 0 {
		if err := createSampleEvents(ctx, eventRepo, adminID, lgr); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func createDefaultAdmin(ctx context.Context, profileRepo *appRepos.ProfileRepository, lgr zerolog.Logger) (int64, error) {
	existing, err := profileRepo.GetByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		// Repair the system-admin flag if an earlier version left it unset
		if !existing.IsSystemAdmin && appAuth.LooksLikeSystemAdmin(existing) {
			if err := profileRepo.SetSystemAdmin(ctx, existing.ID, true); err != nil {
				lgr.Error().Err(err).Msg("Error flagging existing admin as system admin")
				return existing.ID, err
			}
		}
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrProfileNotFound) {
		lgr.Error().Err(err).Msg("Error looking up default admin profile")
		return 0, err
	}

	hashed, err := pkgAuth.HashPassword("ChangeMe123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return 0, err
	}

	admin := &appModels.Profile{
		Email:         DefaultAdminEmail,
		Password:      hashed,
		FullName:      "Admin",
		Role:          appModels.RoleAdmin,
		IsSystemAdmin: true,
	}

	adminID, err := profileRepo.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			// Another instance won the race; nothing to do
			return 0, nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin profile")
		return 0, err
	}

	lgr.Info().Str("email", DefaultAdminEmail).Msg("Default admin profile created (change the password!)")
	return adminID, nil
}

func createSampleEvents(ctx context.Context, eventRepo *appRepos.EventRepository, createdBy int64, lgr zerolog.Logger) error {
	existing, err := eventRepo.ListUpcoming(ctx, 1, false)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing events")
		return err
	}
	if len(existing) > 0 {
		// Events already present, seeding would duplicate them
		return nil
	}

	nextMonday := nextWeekday(time.Now(), time.Monday).Add(19 * time.Hour)
	samples := []*appModels.Event{
		{
			Title:       "Entraînement natation",
			Description: "Séance hebdomadaire en bassin de 50m.",
			Type:        appModels.EventEntrainement,
			Date:        nextMonday,
			Duration:    90,
			Location:    "Piscine municipale",
			CreatedBy:   createdBy,
		},
		{
			Title:       "Sortie eau libre",
			Description: "Sortie club au lac, combinaison recommandée.",
			Type:        appModels.EventSortie,
			Date:        nextMonday.AddDate(0, 0, 5).Add(-9 * time.Hour),
			Duration:    180,
			Location:    "Lac du Bourget",
			CreatedBy:   createdBy,
		},
	}

	var finalErr error
	for _, ev := range samples {
		if _, err := eventRepo.Create(ctx, ev); err != nil {
			lgr.Error().Err(err).Str("title", ev.Title).Msg("Error creating sample event")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if finalErr == nil {
		lgr.Info().Int("count", len(samples)).Msg("Sample events created")
	}
	return finalErr
}

// nextWeekday returns the next occurrence of the given weekday strictly
// after t, at midnight.
func nextWeekday(t time.Time, day time.Weekday) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day) - int(t.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return t.AddDate(0, 0, offset)
}
