package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/aquaclub/aquaclub/internal/app/models"
)

func testService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "aquaclub.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService(time.Hour)
	profile := &models.Profile{ID: 7, Email: "sophie@efrei.net", Role: models.RoleMembre}

	access, refresh, expiresIn, _, err := svc.GenerateTokenPair(profile)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if refresh == "" {
		t.Fatalf("expected non-empty refresh token")
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(access)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.ProfileID != 7 || claims.Email != "sophie@efrei.net" || claims.Role != "membre" {
		t.Errorf("claims = %+v, want profile 7 / sophie@efrei.net / membre", claims)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testService(-time.Minute)
	profile := &models.Profile{ID: 1, Email: "a@b.fr", Role: models.RoleVisiteur}

	access, _, _, _, err := svc.GenerateTokenPair(profile)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateToken(access); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("got %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := testService(time.Hour)
	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	profile := &models.Profile{ID: 1, Email: "a@b.fr", Role: models.RoleVisiteur}

	access, _, _, _, err := svc.GenerateTokenPair(profile)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := other.ValidateToken(access); err == nil {
		t.Fatalf("expected validation failure with wrong secret")
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("empty header: got %v, want ErrInvalidFormat", err)
	}
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil || tok != "abc.def.ghi" {
		t.Fatalf("got (%q, %v), want (abc.def.ghi, nil)", tok, err)
	}
}
