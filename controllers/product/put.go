package productcontroller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

// PATCH /products/:id (admin) — partial update, nil fields untouched.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			response.Error(c, apierror.NotFound("product"))
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		if input.Name != nil && *input.Name != product.Name {
			// Renames go through the same duplicate check as create
			var existing models.Product
			err := db.Where("name = ?", *input.Name).First(&existing).Error
			if err == nil {
				response.Error(c, apierror.Duplicate("product"))
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, apierror.Internal(err))
				return
			}
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				response.Error(c, apierror.Validation(errors.New("price must be positive")))
				return
			}
			product.Price = *input.Price
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				response.Error(c, apierror.Validation(errors.New("stock must be non-negative")))
				return
			}
			product.Stock = *input.Stock
		}

		if err := db.Save(&product).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.OK(c, product)
	}
}
