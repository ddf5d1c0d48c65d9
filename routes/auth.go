package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/auth"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/queue"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, q *queue.Client) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db, q))
		authGroup.POST("/login", auth.LoginHandler(db))
	}
}
