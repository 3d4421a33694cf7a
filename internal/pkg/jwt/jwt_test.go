package jwt

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(12, 3, "ana@prestaclick.mx", "Ana Torres", "ANALYST", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}

	if claims.StaffID != 12 {
		t.Errorf("StaffID = %d", claims.StaffID)
	}
	if claims.TenantID != 3 {
		t.Errorf("TenantID = %d", claims.TenantID)
	}
	if claims.Email != "ana@prestaclick.mx" || claims.FullName != "Ana Torres" || claims.Role != "ANALYST" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "prestaclick" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, 1, "a@b.mx", "A", "ADMIN", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateExpiredAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(1, 1, "a@b.mx", "A", "ADMIN", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err != ErrTokenExpired {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(12, "tok-abc", testSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := ValidateRefreshToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.StaffID != 12 || claims.TokenID != "tok-abc" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	token, err := GenerateRefreshToken(12, "tok-abc", testSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	// Parsing refresh claims as access claims yields zero-value staff
	// fields; callers must use the matching validator and secret.
	claims, err := ValidateAccessToken(token, testSecret)
	if err == nil && claims.Email != "" {
		t.Errorf("unexpected access claims from refresh token: %+v", claims)
	}
}

func TestGetExpiryTime(t *testing.T) {
	got := GetExpiryTime(7)
	want := time.Now().Add(7 * 24 * time.Hour)
	if diff := want.Sub(got); diff > time.Minute || diff < -time.Minute {
		t.Errorf("expiry off by %v", diff)
	}
}
