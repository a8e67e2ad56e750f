package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

// RegistrationRepository handles event registration database operations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Register records a profile's registration for an event. Registering
// twice is a no-op; the returned bool reports whether a new row was
// inserted. The uniqueness of (event_id, profile_id) is enforced by
// the database, so concurrent duplicate requests collapse to one row.
func (r *RegistrationRepository) Register(ctx context.Context, eventID, profileID int64) (bool, error) {
	sql, args, err := r.sb.Insert("event_registrations").
		Columns("event_id", "profile_id").
		Values(eventID, profileID).
		Suffix("ON CONFLICT (event_id, profile_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build register query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).
			Int64("eventID", eventID).
			Int64("profileID", profileID).
			Msg("Error executing register query")
		return false, fmt.Errorf("error registering for event: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// Unregister removes a profile's registration for an event
func (r *RegistrationRepository) Unregister(ctx context.Context, eventID, profileID int64) error {
	sql, args, err := r.sb.Delete("event_registrations").
		Where(squirrel.Eq{"event_id": eventID, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unregister query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).
			Int64("eventID", eventID).
			Int64("profileID", profileID).
			Msg("Error executing unregister query")
		return fmt.Errorf("error unregistering from event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotRegistered
	}

	return nil
}

// IsRegistered checks whether a profile is registered for an event
func (r *RegistrationRepository) IsRegistered(ctx context.Context, eventID, profileID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("event_registrations").
		Where(squirrel.Eq{"event_id": eventID, "profile_id": profileID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build registration exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking registration: %w", err)
	}

	return exists, nil
}

// GetParticipantsByEventID lists the profiles registered for an event,
// ordered by registration time.
func (r *RegistrationRepository) GetParticipantsByEventID(ctx context.Context, eventID int64) ([]*models.EventRegistration, error) {
	sql, args, err := r.sb.Select(
		"r.id", "r.event_id", "r.profile_id", "r.registered_at",
		"p.id", "p.email", "p.full_name", "p.avatar_url", "p.role",
	).
		From("event_registrations r").
		Join("profiles p ON p.id = r.profile_id").
		Where(squirrel.Eq{"r.event_id": eventID}).
		OrderBy("r.registered_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error executing participants query")
		return nil, fmt.Errorf("error querying participants: %w", err)
	}
	defer rows.Close()

	registrations := []*models.EventRegistration{}
	for rows.Next() {
		reg := &models.EventRegistration{Profile: &models.Profile{}}
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.ProfileID, &reg.RegisteredAt,
			&reg.Profile.ID, &reg.Profile.Email, &reg.Profile.FullName, &reg.Profile.AvatarURL, &reg.Profile.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning participant row: %w", err)
		}
		registrations = append(registrations, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return registrations, nil
}

// CountByEventIDs returns registration counts keyed by event ID for
// the given events. Events with no registrations are absent from the
// map.
func (r *RegistrationRepository) CountByEventIDs(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	counts := map[int64]int{}
	if len(eventIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("event_id", "COUNT(*)").
		From("event_registrations").
		Where(squirrel.Eq{"event_id": eventIDs}).
		GroupBy("event_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build registration counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying registration counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int64
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("error scanning registration count row: %w", err)
		}
		counts[eventID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration count rows: %w", err)
	}

	return counts, nil
}
