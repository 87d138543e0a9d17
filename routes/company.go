package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/config"
	companyControllers "github.com/ashastore/asha-api/controllers/company"
	"github.com/ashastore/asha-api/middleware"
	"github.com/ashastore/asha-api/models"
)

func SetupCompanyRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config) {
	company := api.Group("/company")
	{
		company.GET("/info", companyControllers.GetCompanyInfo(db))
		company.PUT("/info",
			middleware.ValidateToken(cfg.JWTSecret),
			middleware.RequireRole(models.RoleSeller, models.RoleAdmin),
			companyControllers.UpdateCompanyInfo(db),
		)
	}
}
