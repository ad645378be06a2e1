package middleware

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

// JWTSecret returns the HS256 signing key. Panics on first use when
// JWT_SECRET is unset rather than signing tokens with an empty key.
func JWTSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

type Claims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

const claimsKey = "claims"

// AdminPredicate decides whether authenticated claims carry the
// administrative capability. Supplied at router construction so deployments
// can tighten or relax the gate without touching handler code.
type AdminPredicate func(*Claims) bool

// DefaultAdminPredicate accepts any token carrying the admin claim.
func DefaultAdminPredicate(claims *Claims) bool {
	return claims.Admin
}

// AuthMiddleware validates the Bearer token and stores its claims in the
// request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims := &Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			return JWTSecret(), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin refuses the request unless the authenticated claims satisfy
// the predicate. Must run after AuthMiddleware.
func RequireAdmin(pred AdminPredicate) gin.HandlerFunc {
	if pred == nil {
		pred = DefaultAdminPredicate
	}
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok || !pred(claims) {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Administrative capability required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetClaims(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}
