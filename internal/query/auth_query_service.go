package query

import (
	"fmt"
	"time"

	"github.com/botvault/botvault/internal/middleware"
	"github.com/botvault/botvault/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// AuthQueryService handles login and token refresh for the single operator
// identity. There's no CommandService for auth because these operations
// don't mutate application state.
type AuthQueryService struct {
	adminEmail        string
	adminPasswordHash string
}

func NewAuthQueryService(adminEmail, adminPasswordHash string) *AuthQueryService {
	return &AuthQueryService{
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
	}
}

func (s *AuthQueryService) Login(email, password string) (string, error) {
	if email != s.adminEmail {
		return "", fmt.Errorf("invalid credentials")
	}
	if !utils.CheckPassword(password, s.adminPasswordHash) {
		return "", fmt.Errorf("invalid credentials")
	}
	return s.generateToken(email)
}

func (s *AuthQueryService) RefreshToken(tokenString string) (string, error) {
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return middleware.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return s.generateToken(claims.Email)
}

func (s *AuthQueryService) generateToken(email string) (string, error) {
	claims := middleware.Claims{
		Email: email,
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(middleware.JWTSecret())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
