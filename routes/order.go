package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashastore/asha-api/config"
	orderControllers "github.com/ashastore/asha-api/controllers/order"
	"github.com/ashastore/asha-api/middleware"
	"github.com/ashastore/asha-api/models"
)

func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config) {
	// Guest checkout flow: order creation and the payment provider's
	// return callback are unauthenticated by design.
	guest := api.Group("/guest-orders")
	{
		guest.POST("", orderControllers.CreateGuestOrder(db))
		guest.GET("/:orderNumber", orderControllers.GetGuestOrder(db))
		guest.POST("/:orderNumber/mark-paid", orderControllers.MarkGuestOrderPaid(db))
	}

	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// Order history; buyers get their own, sellers everything
		orders.GET("", orderControllers.GetOrders(db))

		// websocket endpoint for real-time order updates
		orders.GET("/ws",
			middleware.RequireRole(models.RoleSeller, models.RoleAdmin),
			orderControllers.OrderWebSocketHandler,
		)

		orders.GET("/:id", orderControllers.GetOrderByID(db))

		// Update order status (e.g., shipped, cancelled)
		orders.PUT("/:id/status",
			middleware.RequireRole(models.RoleSeller, models.RoleAdmin),
			orderControllers.UpdateOrderStatus(db),
		)
	}
}
