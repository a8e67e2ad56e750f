package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

// PasswordResetTokenRepository manages password reset tokens
type PasswordResetTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPasswordResetTokenRepository creates a new PasswordResetTokenRepository
func NewPasswordResetTokenRepository(db *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateResetToken stores a new password reset token for a profile
func (r *PasswordResetTokenRepository) CreateResetToken(ctx context.Context, profileID int64, token string, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("password_reset_tokens").
		Columns("profile_id", "token", "expiry_date", "used", "created_at").
		Values(profileID, token, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create reset token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("profileID", profileID).Msg("Error executing create reset token query")
		return fmt.Errorf("error creating reset token: %w", err)
	}

	return nil
}

// ConsumeResetToken atomically marks a pending reset token as used and
// returns the owning profile. A second call with the same token finds
// no matching unused row and fails, so each token resets at most once.
func (r *PasswordResetTokenRepository) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	sql, args, err := r.sb.Update("password_reset_tokens").
		Set("used", true).
		Where(squirrel.Eq{"token": token, "used": false}).
		Where(squirrel.Gt{"expiry_date": time.Now()}).
		Suffix("RETURNING profile_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build consume reset token query: %w", err)
	}

	var profileID int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profileID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Msg("Error executing consume reset token query")
		return 0, fmt.Errorf("error consuming reset token: %w", err)
	}

	return profileID, nil
}

// DeleteExpiredResetTokens removes expired and used reset tokens
func (r *PasswordResetTokenRepository) DeleteExpiredResetTokens(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("password_reset_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expiry_date": time.Now()},
			squirrel.Eq{"used": true},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup reset tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup reset tokens query")
		return 0, fmt.Errorf("error cleaning up reset tokens: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
