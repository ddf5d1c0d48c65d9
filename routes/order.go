package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/config"
	orderControllers "github.com/KrankMcCannon/ge-svi-ecommerce-api/controllers/order"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/queue"
)

// SetupOrderRoutes registers all "/orders/*" endpoints.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, q *queue.Client, cfg config.Config) {
	orders := r.Group("/orders")

	// websocket endpoint for real-time order updates
	orders.GET("/ws", orderControllers.OrderWebSocketHandler)

	orders.Use(middleware.ValidateToken)
	{
		// Convert the caller's cart into an order
		orders.POST("/checkout", orderControllers.CheckoutHandler(db, q))

		// Fetch the caller's orders
		orders.GET("", orderControllers.ListOrdersHandler(db, cfg.DefaultPageSize))
		orders.GET("/:id", orderControllers.GetOrderHandler(db))

		// Update order status (admin)
		orders.PATCH("/:id/status",
			middleware.RequireRole(models.RoleAdmin),
			orderControllers.UpdateOrderStatusHandler(db))
	}
}
