package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ashastore/asha-api/apperrors"
	"github.com/ashastore/asha-api/models"
)

// ValidateToken checks the bearer token and stores user_id, email and role
// on the context for downstream handlers. Failures go through the error
// middleware.
func ValidateToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			_ = c.Error(apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid token signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				_ = c.Error(apperrors.ErrTokenExpired)
			} else {
				_ = c.Error(apperrors.Wrap(apperrors.ErrInvalidToken, err))
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			_ = c.Error(apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("email", claims["email"])
		c.Set("role", claims["role"])

		c.Next()
	}
}

// RequireRole aborts with 403 unless the token carries one of the given
// roles. Must run after ValidateToken.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			_ = c.Error(apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		role, _ := roleVal.(string)
		for _, r := range roles {
			if string(r) == role {
				c.Next()
				return
			}
		}
		_ = c.Error(apperrors.ErrForbidden)
		c.Abort()
	}
}
