package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/config"
	userControllers "github.com/KrankMcCannon/ge-svi-ecommerce-api/controllers/user"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
)

// SetupUserRoutes registers all "/users/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	userGroup := r.Group("/users")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/:id", userControllers.GetUser(db))
		userGroup.PATCH("/:id", userControllers.UpdateUser(db))

		admin := userGroup.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("", userControllers.CreateUser(db))
			admin.GET("", userControllers.GetAllUsers(db, cfg.DefaultPageSize))
			admin.DELETE("/:id", userControllers.DeleteUser(db))
		}
	}
}
