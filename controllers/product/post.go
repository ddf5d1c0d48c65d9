package productcontroller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

type CreateProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
}

// CreateProduct inserts a catalog entry, rejecting duplicate names.
func CreateProduct(db *gorm.DB, input CreateProductInput) (*models.Product, error) {
	var existing models.Product
	err := db.Where("name = ?", input.Name).First(&existing).Error
	if err == nil {
		return nil, apierror.Duplicate("product")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Internal(err)
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, apierror.Internal(err)
	}
	return &product, nil
}

// POST /products (admin)
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		product, err := CreateProduct(db, input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, product)
	}
}
