package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/KrankMcCannon/ge-svi-ecommerce-api/controllers/cart"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
)

// SetupCartRoutes registers all "/carts/*" endpoints. Requires JWT middleware.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cartGroup := r.Group("/carts")
	cartGroup.Use(middleware.ValidateToken)
	{
		cartGroup.POST("/cart", cartControllers.AddToCartHandler(db))
		cartGroup.GET("/cart/:id", cartControllers.GetCartHandler(db))
		cartGroup.DELETE("/cart/:id", cartControllers.RemoveCartItemHandler(db))
	}
}
