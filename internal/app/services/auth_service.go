package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/auth"
	"github.com/aquaclub/aquaclub/internal/pkg/email"
)

// magicLinkTTL bounds how long an emailed login code stays valid
const magicLinkTTL = 15 * time.Minute

// resetTokenTTL bounds how long an emailed password reset token stays valid
const resetTokenTTL = time.Hour

// tokenStore is the subset of TokenRepository used by AuthService
type tokenStore interface {
	CreateToken(ctx context.Context, token string, profileID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllProfileTokens(ctx context.Context, profileID int64) error
	CreateMagicLink(ctx context.Context, email, code string, expiryDate time.Time) error
	ConsumeMagicLink(ctx context.Context, code string) (string, error)
}

// resetTokenStore is the subset of PasswordResetTokenRepository used by AuthService
type resetTokenStore interface {
	CreateResetToken(ctx context.Context, profileID int64, token string, expiryDate time.Time) error
	ConsumeResetToken(ctx context.Context, token string) (int64, error)
}

// authProfileStore is the subset of ProfileRepository used by AuthService
type authProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
}

// profileResolver turns an authenticated email into its profile,
// creating one on first touch. ProfileService implements it.
type profileResolver interface {
	ResolveProfile(ctx context.Context, email, fullName string) (*models.Profile, error)
}

// AuthService handles authentication operations
type AuthService struct {
	profileRepo     authProfileStore
	profileResolver profileResolver
	tokenRepo       tokenStore
	resetTokenRepo  resetTokenStore
	jwtService      *auth.JWTService
	emailService    email.EmailService
	logger          zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profileRepo authProfileStore,
	resolver profileResolver,
	tokenRepo tokenStore,
	resetTokenRepo resetTokenStore,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		profileRepo:     profileRepo,
		profileResolver: resolver,
		tokenRepo:       tokenRepo,
		resetTokenRepo:  resetTokenRepo,
		jwtService:      jwtService,
		emailService:    emailService,
		logger:          logger,
	}
}

// Register creates a new password-based account with the default role
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.Profile, error) {
	exists, err := s.profileRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = fullNameFromEmail(req.Email)
	}

	profile := &models.Profile{
		Email:    req.Email,
		Password: hashed,
		FullName: fullName,
		Role:     models.RoleVisiteur,
	}

	id, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
	profile.ID = id

	if err := s.emailService.SendWelcomeEmail(profile.Email, profile.FullName); err != nil {
		s.logger.Warn().Err(err).Str("email", profile.Email).Msg("Failed to send welcome email")
	}

	s.logger.Info().Int64("profileID", id).Str("email", profile.Email).Msg("Profile registered")
	return profile, nil
}

// Login authenticates against a stored password hash and issues a
// token pair. Unknown emails and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, *models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error finding profile: %w", err)
	}

	if profile.Password == "" || !auth.CheckPassword(profile.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	if err := s.profileRepo.UpdateLastLogin(ctx, profile.ID); err != nil {
		s.logger.Warn().Err(err).Int64("profileID", profile.ID).Msg("Failed to record last login")
	}

	return tokens, profile, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The
// presented token is revoked in the same call, so each refresh token
// works exactly once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	profileID, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("error finding profile for refresh: %w", err)
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}

	return s.issueTokens(ctx, profile)
}

// Logout revokes a single refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// LogoutAll revokes every active session of a profile
func (s *AuthService) LogoutAll(ctx context.Context, profileID int64) error {
	return s.tokenRepo.RevokeAllProfileTokens(ctx, profileID)
}

// RequestMagicLink emails a one-time login code. The response does not
// reveal whether the email belongs to an existing account.
func (s *AuthService) RequestMagicLink(ctx context.Context, toEmail string) error {
	code, err := email.GenerateLoginCode()
	if err != nil {
		return fmt.Errorf("error generating login code: %w", err)
	}

	if err := s.tokenRepo.CreateMagicLink(ctx, toEmail, code, time.Now().Add(magicLinkTTL)); err != nil {
		return fmt.Errorf("error storing login code: %w", err)
	}

	if err := s.emailService.SendLoginCodeEmail(toEmail, code); err != nil {
		return fmt.Errorf("error sending login code: %w", err)
	}

	return nil
}

// VerifyMagicLink exchanges an emailed code for a session. Profile
// lookup and first-login creation go through the shared resolver.
func (s *AuthService) VerifyMagicLink(ctx context.Context, reqEmail, code string) (*dto.TokenResponse, *models.Profile, error) {
	storedEmail, err := s.tokenRepo.ConsumeMagicLink(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if storedEmail != reqEmail {
		return nil, nil, apperrors.ErrMagicLinkInvalid
	}

	profile, err := s.profileResolver.ResolveProfile(ctx, reqEmail, "")
	if err != nil {
		return nil, nil, fmt.Errorf("error resolving profile: %w", err)
	}
	if profile.ID == 0 {
		// Resolution degraded to an ephemeral visiteur; there is no
		// stored row to attach a session to.
		return nil, nil, fmt.Errorf("profile store unavailable, cannot issue session for %s", reqEmail)
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	if err := s.profileRepo.UpdateLastLogin(ctx, profile.ID); err != nil {
		s.logger.Warn().Err(err).Int64("profileID", profile.ID).Msg("Failed to record last login")
	}

	return tokens, profile, nil
}

// RequestPasswordReset emails a single-use reset token. Like the
// magic-link request, the response does not reveal whether the email
// belongs to an existing account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, toEmail string) error {
	profile, err := s.profileRepo.GetByEmail(ctx, toEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil
		}
		return fmt.Errorf("error finding profile: %w", err)
	}

	token := uuid.New().String()
	if err := s.resetTokenRepo.CreateResetToken(ctx, profile.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err := s.emailService.SendPasswordResetEmail(toEmail, token); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}

	return nil
}

// ResetPassword exchanges a reset token for a new password. The token
// works exactly once and every active session of the profile is
// revoked, so stolen refresh tokens die with the old password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	profileID, err := s.resetTokenRepo.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.profileRepo.UpdatePassword(ctx, profileID, hashed); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	if err := s.tokenRepo.RevokeAllProfileTokens(ctx, profileID); err != nil {
		s.logger.Warn().Err(err).Int64("profileID", profileID).Msg("Failed to revoke sessions after password reset")
	}

	s.logger.Info().Int64("profileID", profileID).Msg("Password reset completed")
	return nil
}

// UpdatePassword changes the password of an authenticated profile
// after checking the current one. Other sessions are revoked.
func (s *AuthService) UpdatePassword(ctx context.Context, profileID int64, currentPassword, newPassword string) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}

	if profile.Password == "" || !auth.CheckPassword(profile.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.profileRepo.UpdatePassword(ctx, profileID, hashed); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	if err := s.tokenRepo.RevokeAllProfileTokens(ctx, profileID); err != nil {
		s.logger.Warn().Err(err).Int64("profileID", profileID).Msg("Failed to revoke sessions after password change")
	}

	s.logger.Info().Int64("profileID", profileID).Msg("Password updated")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, profile *models.Profile) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(profile)
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, profile.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		TokenType:        "Bearer",
	}, nil
}
