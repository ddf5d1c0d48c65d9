package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/config"
	productcontroller "github.com/KrankMcCannon/ge-svi-ecommerce-api/controllers/product"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
)

// SetupProductRoutes registers all "/products/*" endpoints.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	productGroup := r.Group("/products")
	productGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Browse (any authenticated role) ────────────────
		productGroup.GET("", productcontroller.GetProducts(db, cfg.DefaultPageSize))
		productGroup.GET("/:id", productcontroller.GetProductByID(db))

		// ──────────────── Comments ────────────────
		productGroup.POST("/:id/comments", productcontroller.CreateCommentHandler(db))
		productGroup.GET("/:id/comments", productcontroller.GetCommentsHandler(db))

		// ──────────────── Catalog Management (admin) ────────────────
		admin := productGroup.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("", productcontroller.CreateProductHandler(db))
			admin.PATCH("/:id", productcontroller.UpdateProduct(db))
			admin.DELETE("/:id", productcontroller.DeleteProductHandler(db))
			admin.GET("/export/excel", productcontroller.ExportProductsToExcel(db))
		}
	}
}
