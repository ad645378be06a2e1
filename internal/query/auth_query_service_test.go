package query

import (
	"testing"

	"github.com/botvault/botvault/internal/middleware"
	"github.com/botvault/botvault/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

func newTestService(t *testing.T) *AuthQueryService {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	hash, err := utils.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return NewAuthQueryService("admin@example.com", hash)
}

func parseClaims(t *testing.T, tokenString string) *middleware.Claims {
	t.Helper()
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return middleware.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not parse: %v", err)
	}
	return claims
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Login("admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := parseClaims(t, token)
	if !claims.Admin {
		t.Error("expected admin claim on issued token")
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("expected email claim, got %q", claims.Email)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Login("admin@example.com", "wrong"); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, err := svc.Login("other@example.com", "hunter2"); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestRefreshToken(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Login("admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := svc.RefreshToken(token)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	claims := parseClaims(t, refreshed)
	if !claims.Admin || claims.Email != "admin@example.com" {
		t.Errorf("refreshed token lost claims: %+v", claims)
	}

	if _, err := svc.RefreshToken("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}
