package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/config"
	productControllers "github.com/ashastore/asha-api/controllers/product"
	"github.com/ashastore/asha-api/middleware"
	"github.com/ashastore/asha-api/models"
)

// SetupProductRoutes registers the public catalog endpoints plus the
// seller-only export.
func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config) {
	api.GET("/products", productControllers.GetProducts(db))
	api.GET("/products-fixed", productControllers.GetProductsFixed(db))
	api.GET("/products/:id", productControllers.GetProduct(db))

	api.GET("/products/export",
		middleware.ValidateToken(cfg.JWTSecret),
		middleware.RequireRole(models.RoleSeller, models.RoleAdmin),
		productControllers.ExportProductsToExcel(db),
	)
}
