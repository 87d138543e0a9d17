package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/cache"
	"github.com/ashastore/asha-api/config"
)

// SetupRoutes is the single entry-point that wires up every /api/v1 route
// group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, resetTokens *cache.ResetTokenStore) {
	api := r.Group("/api/v1")

	SetupAuthRoutes(api, db, cfg, resetTokens)
	SetupProductRoutes(api, db, cfg)
	SetupOrderRoutes(api, db, cfg)
	SetupCompanyRoutes(api, db, cfg)
}
