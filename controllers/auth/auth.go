package authControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/apperrors"
	"github.com/ashastore/asha-api/cache"
	"github.com/ashastore/asha-api/config"
	"github.com/ashastore/asha-api/logger"
	"github.com/ashastore/asha-api/models"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func issueToken(user models.User, cfg config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// POST /api/v1/auth/login
func Login(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			_ = c.Error(apperrors.ErrInvalidCredentials)
			return
		}
		if !user.IsActive {
			_ = c.Error(apperrors.New(http.StatusUnauthorized, "Account is disabled", nil))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			_ = c.Error(apperrors.ErrInvalidCredentials)
			return
		}

		token, err := issueToken(user, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"user":         user,
		})
	}
}

// GET /api/v1/auth/me
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userIDVal).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// POST /api/v1/auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !models.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}

		email := strings.ToLower(req.Email)
		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			_ = c.Error(apperrors.ErrEmailTaken)
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			_ = c.Error(apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Email:        email,
			Username:     req.Username,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PasswordHash: string(hash),
			Role:         models.Role(req.Role),
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

// POST /api/v1/auth/forgot-password
//
// Responds 200 whether or not the account exists, to avoid enumeration.
func ForgotPassword(db *gorm.DB, tokens *cache.ResetTokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		email := strings.ToLower(req.Email)
		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err == nil {
			token := uuid.NewString()
			if err := tokens.Save(c.Request.Context(), token, email); err != nil {
				logger.Log.Error("Failed to store reset token", zap.Error(err))
			} else {
				// Mail delivery is handled out of band; the token is
				// logged so operators can forward it manually.
				logger.Log.Info("Password reset token issued",
					zap.String("email", email),
					zap.String("token", token),
				)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
	}
}

// POST /api/v1/auth/reset-password
func ResetPassword(db *gorm.DB, tokens *cache.ResetTokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		email, err := tokens.Consume(c.Request.Context(), req.Token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify reset token"})
			return
		}
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Model(&models.User{}).Where("email = ?", email).
			Update("password_hash", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
