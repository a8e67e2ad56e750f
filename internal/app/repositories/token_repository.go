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
	"github.com/aquaclub/aquaclub/internal/pkg/dberrors"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

// TokenRepository handles refresh token and magic link database operations
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateToken creates a new refresh token
func (r *TokenRepository) CreateToken(ctx context.Context, token string, profileID int64, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "profile_id", "expiry_date", "is_revoked", "created_at").
		Values(token, profileID, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create token SQL")
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_token_key") {
			logger.Warn().Int64("profileID", profileID).Msg("Attempted to create duplicate refresh token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("profileID", profileID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}

	return nil
}

// GetTokenByValue retrieves the owning profile for a refresh token,
// rejecting revoked and expired tokens.
func (r *TokenRepository) GetTokenByValue(ctx context.Context, token string) (int64, error) {
	var profileID int64
	var expiryDate time.Time
	var isRevoked bool

	sql, args, err := r.sb.Select("profile_id", "expiry_date", "is_revoked").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get token query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&profileID, &expiryDate, &isRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning token row")
		return 0, fmt.Errorf("error retrieving token: %w", err)
	}

	if isRevoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if expiryDate.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}

	return profileID, nil
}

// RevokeToken revokes a single refresh token
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing revoke token query")
		return fmt.Errorf("error revoking token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// RevokeAllProfileTokens revokes every active refresh token of a profile
func (r *TokenRepository) RevokeAllProfileTokens(ctx context.Context, profileID int64) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"profile_id": profileID, "is_revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke all profile tokens query: %w", err)
	}

	// No rows affected is fine: the profile simply had no active tokens.
	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("profileID", profileID).Msg("Error executing revoke all profile tokens query")
		return fmt.Errorf("error revoking profile tokens: %w", err)
	}

	return nil
}

// CleanupExpiredTokens removes expired and long-revoked refresh tokens
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)

	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expiry_date": time.Now()},
			squirrel.And{
				squirrel.Eq{"is_revoked": true},
				squirrel.Lt{"created_at": thirtyDaysAgo},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup tokens query")
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	deletedCount := cmdTag.RowsAffected()
	logger.Info().Int64("deletedCount", deletedCount).Msg("Cleaned up expired/old revoked tokens")

	return deletedCount, nil
}

// CreateMagicLink stores a single-use login code for an email address
func (r *TokenRepository) CreateMagicLink(ctx context.Context, email, code string, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("magic_link_tokens").
		Columns("email", "code", "expiry_date", "used", "created_at").
		Values(email, code, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create magic link query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error executing create magic link query")
		return fmt.Errorf("error creating magic link: %w", err)
	}

	return nil
}

// ConsumeMagicLink atomically marks a pending magic link as used and
// returns its email. A second call with the same code finds no
// matching unused row and fails, so each link logs in at most once.
func (r *TokenRepository) ConsumeMagicLink(ctx context.Context, code string) (string, error) {
	sql, args, err := r.sb.Update("magic_link_tokens").
		Set("used", true).
		Where(squirrel.Eq{"code": code, "used": false}).
		Where(squirrel.Gt{"expiry_date": time.Now()}).
		Suffix("RETURNING email").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build consume magic link query: %w", err)
	}

	var email string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrMagicLinkInvalid
		}
		logger.Error().Err(err).Msg("Error executing consume magic link query")
		return "", fmt.Errorf("error consuming magic link: %w", err)
	}

	return email, nil
}
