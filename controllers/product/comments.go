package productcontroller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

type CreateCommentInput struct {
	Content string `json:"content" binding:"required"`
}

// POST /products/:id/comments
func CreateCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			response.Error(c, apierror.InvalidCredentials())
			return
		}
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("product"))
			return
		}

		var input CreateCommentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			response.Error(c, apierror.NotFound("product"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			response.Error(c, apierror.NotFound("user"))
			return
		}

		comment := models.Comment{
			ProductID: product.ID,
			UserID:    user.ID,
			Author:    user.Name,
			Content:   input.Content,
		}
		if err := db.Create(&comment).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.Created(c, comment)
	}
}

// GET /products/:id/comments
func GetCommentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("product"))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			response.Error(c, apierror.NotFound("product"))
			return
		}

		var comments []models.Comment
		if err := db.Where("product_id = ?", product.ID).Order("created_at DESC").Find(&comments).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.OK(c, comments)
	}
}
