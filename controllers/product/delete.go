package productcontroller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

// DeleteProduct removes a product unless cart or order lines still
// reference it; those make the delete fail with a constraint error.
// Comments on the product are removed with it.
func DeleteProduct(db *gorm.DB, productID string) error {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("product")
		}
		return apierror.Internal(err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var cartRefs, orderRefs int64
		if err := tx.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&cartRefs).Error; err != nil {
			return apierror.Internal(err)
		}
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&orderRefs).Error; err != nil {
			return apierror.Internal(err)
		}
		if cartRefs > 0 || orderRefs > 0 {
			return apierror.Constraint("product is referenced by cart or order items")
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Comment{}).Error; err != nil {
			return apierror.Internal(err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return apierror.Internal(err)
		}
		return nil
	})
}

// DELETE /products/:id (admin)
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := DeleteProduct(db, c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Product deleted successfully"})
	}
}
