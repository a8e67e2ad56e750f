package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/dberrors"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

// profileColumns is the canonical column list scanned into models.Profile
var profileColumns = []string{
	"id", "email", "password", "full_name", "avatar_url", "role",
	"is_system_admin", "created_at", "updated_at", "last_login_at",
}

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.Password, &p.FullName, &p.AvatarURL, &p.Role,
		&p.IsSystemAdmin, &p.CreatedAt, &p.UpdatedAt, &p.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile. The unique constraint on email is the
// sole at-most-once guarantee for lazily created profiles: concurrent
// first logins racing to create the same row get ErrEmailAlreadyExists
// and must re-read.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) (int64, error) {
	sql, args, err := r.sb.Insert("profiles").
		Columns("email", "password", "full_name", "avatar_url", "role", "is_system_admin").
		Values(profile.Email, profile.Password, profile.FullName, profile.AvatarURL, profile.Role, profile.IsSystemAdmin).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create profile SQL")
		return 0, fmt.Errorf("failed to build create profile query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", profile.Email).Msg("Error executing create profile query")
		return 0, fmt.Errorf("error creating profile: %w", err)
	}

	return id, nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Int64("profileID", id).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error getting profile by ID: %w", err)
	}

	return profile, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile by email query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error getting profile by email: %w", err)
	}

	return profile, nil
}

// EmailExists checks whether a profile with this email exists
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("profiles").
		Where(squirrel.Eq{"email": email}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Str("email", email).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email existence: %w", err)
	}

	return exists, nil
}

// List retrieves all profiles ordered by name
func (r *ProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		OrderBy("full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, fmt.Errorf("error querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, nil
}

// UpdateRole sets a profile's role
func (r *ProfileRepository) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	sql, args, err := r.sb.Update("profiles").
		Set("role", role).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update role query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("profileID", id).Msg("Error executing update role query")
		return fmt.Errorf("error updating role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// SetSystemAdmin sets or clears the protected system-admin flag
func (r *ProfileRepository) SetSystemAdmin(ctx context.Context, id int64, isSystemAdmin bool) error {
	sql, args, err := r.sb.Update("profiles").
		Set("is_system_admin", isSystemAdmin).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set system admin query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("profileID", id).Msg("Error executing set system admin query")
		return fmt.Errorf("error setting system admin flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdateFullName sets a profile's display name
func (r *ProfileRepository) UpdateFullName(ctx context.Context, id int64, fullName string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("full_name", fullName).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update full name query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating full name: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdatePassword replaces a profile's password hash
func (r *ProfileRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("password", hashedPassword).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("profileID", id).Msg("Error executing update password query")
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdateLastLogin stamps the last login time
func (r *ProfileRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("profiles").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Warn().Err(err).Int64("profileID", id).Msg("Failed to stamp last login")
		return fmt.Errorf("error updating last login: %w", err)
	}

	return nil
}
