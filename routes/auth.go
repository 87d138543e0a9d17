package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/cache"
	"github.com/ashastore/asha-api/config"
	authControllers "github.com/ashastore/asha-api/controllers/auth"
	"github.com/ashastore/asha-api/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config, resetTokens *cache.ResetTokenStore) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimit(30, 10), authControllers.Login(db, cfg))
		authGroup.POST("/register", authControllers.Register(db))
		authGroup.POST("/forgot-password", authControllers.ForgotPassword(db, resetTokens))
		authGroup.POST("/reset-password", authControllers.ResetPassword(db, resetTokens))

		authGroup.GET("/me", middleware.ValidateToken(cfg.JWTSecret), authControllers.Me(db))
	}
}
