package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/auth"
)

type storedToken struct {
	profileID int64
	expiry    time.Time
	revoked   bool
}

type storedMagicLink struct {
	email  string
	expiry time.Time
	used   bool
}

type fakeTokenStore struct {
	tokens     map[string]*storedToken
	magicLinks map[string]*storedMagicLink
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*storedToken{}, magicLinks: map[string]*storedMagicLink{}}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, profileID int64, expiryDate time.Time) error {
	f.tokens[token] = &storedToken{profileID: profileID, expiry: expiryDate}
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(_ context.Context, token string) (int64, error) {
	t, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if t.revoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if t.expiry.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return t.profileID, nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	t, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllProfileTokens(_ context.Context, profileID int64) error {
	for _, t := range f.tokens {
		if t.profileID == profileID {
			t.revoked = true
		}
	}
	return nil
}

func (f *fakeTokenStore) CreateMagicLink(_ context.Context, email, code string, expiryDate time.Time) error {
	f.magicLinks[code] = &storedMagicLink{email: email, expiry: expiryDate}
	return nil
}

func (f *fakeTokenStore) ConsumeMagicLink(_ context.Context, code string) (string, error) {
	ml, ok := f.magicLinks[code]
	if !ok || ml.used || ml.expiry.Before(time.Now()) {
		return "", apperrors.ErrMagicLinkInvalid
	}
	ml.used = true
	return ml.email, nil
}

type storedResetToken struct {
	profileID int64
	expiry    time.Time
	used      bool
}

type fakeResetTokenStore struct {
	tokens map[string]*storedResetToken
}

func newFakeResetTokenStore() *fakeResetTokenStore {
	return &fakeResetTokenStore{tokens: map[string]*storedResetToken{}}
}

func (f *fakeResetTokenStore) CreateResetToken(_ context.Context, profileID int64, token string, expiryDate time.Time) error {
	f.tokens[token] = &storedResetToken{profileID: profileID, expiry: expiryDate}
	return nil
}

func (f *fakeResetTokenStore) ConsumeResetToken(_ context.Context, token string) (int64, error) {
	t, ok := f.tokens[token]
	if !ok || t.used || t.expiry.Before(time.Now()) {
		return 0, apperrors.ErrTokenInvalid
	}
	t.used = true
	return t.profileID, nil
}

type fakeEmailSender struct {
	lastCode       string
	lastEmail      string
	lastResetToken string
}

func (f *fakeEmailSender) SendLoginCodeEmail(toEmail, code string) error {
	f.lastEmail = toEmail
	f.lastCode = code
	return nil
}

func (f *fakeEmailSender) SendWelcomeEmail(string, string) error { return nil }

func (f *fakeEmailSender) SendPasswordResetEmail(toEmail, token string) error {
	f.lastEmail = toEmail
	f.lastResetToken = token
	return nil
}

func newTestAuthService() (*AuthService, *fakeProfileStore, *fakeTokenStore, *fakeEmailSender) {
	profiles := newFakeProfileStore()
	tokens := newFakeTokenStore()
	sender := &fakeEmailSender{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	resolver := NewProfileService(profiles, zerolog.Nop())
	svc := NewAuthService(profiles, resolver, tokens, newFakeResetTokenStore(), jwtService, sender, zerolog.Nop())
	return svc, profiles, tokens, sender
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "sophie.martin@efrei.net",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatal(err)
	}
	if profile.Role != models.RoleVisiteur {
		t.Fatalf("new accounts start as visiteur, got %s", profile.Role)
	}

	tokens, logged, err := svc.Login(ctx, "sophie.martin@efrei.net", "Secret123")
	if err != nil {
		t.Fatal(err)
	}
	if logged.ID != profile.ID {
		t.Fatalf("expected profile %d, got %d", profile.ID, logged.ID)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.TokenType != "Bearer" {
		t.Fatalf("incomplete token response: %+v", tokens)
	}

	if _, _, err := svc.Login(ctx, "sophie.martin@efrei.net", "wrong"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@efrei.net", "whatever"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.fr", Password: "Secret123"}); err != nil {
		t.Fatal(err)
	}
	first, _, err := svc.Login(ctx, "a@b.fr", "Secret123")
	if err != nil {
		t.Fatal(err)
	}

	second, err := svc.RefreshToken(ctx, first.RefreshToken)
	if err != nil {
		t.Fatal(err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	if _, err := svc.RefreshToken(ctx, first.RefreshToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("reusing a rotated token must fail revoked, got %v", err)
	}
}

func TestMagicLinkFlow(t *testing.T) {
	svc, _, _, sender := newTestAuthService()
	ctx := context.Background()

	if err := svc.RequestMagicLink(ctx, "new.member@club.fr"); err != nil {
		t.Fatal(err)
	}
	if sender.lastCode == "" || sender.lastEmail != "new.member@club.fr" {
		t.Fatalf("expected emailed code, got %+v", sender)
	}

	tokens, profile, err := svc.VerifyMagicLink(ctx, "new.member@club.fr", sender.lastCode)
	if err != nil {
		t.Fatal(err)
	}
	if profile.Role != models.RoleVisiteur {
		t.Fatalf("first magic-link login must create a visiteur, got %s", profile.Role)
	}
	if tokens.AccessToken == "" {
		t.Fatal("expected a session")
	}

	// The code is single use.
	if _, _, err := svc.VerifyMagicLink(ctx, "new.member@club.fr", sender.lastCode); !errors.Is(err, apperrors.ErrMagicLinkInvalid) {
		t.Fatalf("expected ErrMagicLinkInvalid on reuse, got %v", err)
	}
}

func TestVerifyMagicLinkSurvivesCreateRace(t *testing.T) {
	// Losing the first-login create race: the code exchange must come
	// back with the winner's profile, not an error or a duplicate row.
	svc, profiles, _, sender := newTestAuthService()
	ctx := context.Background()

	winner := profiles.add(&models.Profile{Email: "race@club.fr", FullName: "Winner", Role: models.RoleVisiteur})

	if err := svc.RequestMagicLink(ctx, "race@club.fr"); err != nil {
		t.Fatal(err)
	}

	profiles.missOnce = true
	profiles.failCreate = apperrors.ErrEmailAlreadyExists

	_, profile, err := svc.VerifyMagicLink(ctx, "race@club.fr", sender.lastCode)
	if err != nil {
		t.Fatal(err)
	}
	if profile.ID != winner.ID {
		t.Fatalf("expected winner profile %d, got %+v", winner.ID, profile)
	}
	if len(profiles.profiles) != 1 {
		t.Fatalf("expected exactly one profile row, got %d", len(profiles.profiles))
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, sender := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "nageur@club.fr", Password: "OldSecret1"}); err != nil {
		t.Fatal(err)
	}
	session, _, err := svc.Login(ctx, "nageur@club.fr", "OldSecret1")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.RequestPasswordReset(ctx, "nageur@club.fr"); err != nil {
		t.Fatal(err)
	}
	if sender.lastResetToken == "" || sender.lastEmail != "nageur@club.fr" {
		t.Fatalf("expected emailed reset token, got %+v", sender)
	}

	if err := svc.ResetPassword(ctx, sender.lastResetToken, "NewSecret1"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(ctx, "nageur@club.fr", "OldSecret1"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nageur@club.fr", "NewSecret1"); err != nil {
		t.Fatalf("new password must work, got %v", err)
	}

	// Sessions issued before the reset are dead.
	if _, err := svc.RefreshToken(ctx, session.RefreshToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("pre-reset refresh token must be revoked, got %v", err)
	}

	// The token is single use.
	if err := svc.ResetPassword(ctx, sender.lastResetToken, "Another1!"); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on reuse, got %v", err)
	}
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, sender := newTestAuthService()

	if err := svc.RequestPasswordReset(context.Background(), "nobody@club.fr"); err != nil {
		t.Fatalf("unknown email must not surface an error, got %v", err)
	}
	if sender.lastResetToken != "" {
		t.Fatal("no token may be emailed for an unknown account")
	}
}

func TestUpdatePasswordChecksCurrent(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{Email: "coach@club.fr", Password: "OldSecret1"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdatePassword(ctx, profile.ID, "wrong", "NewSecret1"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("wrong current password must be rejected, got %v", err)
	}

	if err := svc.UpdatePassword(ctx, profile.ID, "OldSecret1", "NewSecret1"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Login(ctx, "coach@club.fr", "NewSecret1"); err != nil {
		t.Fatalf("new password must work, got %v", err)
	}
}

func TestMagicLinkEmailMismatch(t *testing.T) {
	svc, _, _, sender := newTestAuthService()
	ctx := context.Background()

	if err := svc.RequestMagicLink(ctx, "owner@club.fr"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.VerifyMagicLink(ctx, "attacker@club.fr", sender.lastCode); !errors.Is(err, apperrors.ErrMagicLinkInvalid) {
		t.Fatalf("code must only work with its own email, got %v", err)
	}
}
