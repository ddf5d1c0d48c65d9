package productcontroller

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

// GET /products — paginated catalog with search, price filters and sorting.
func GetProducts(db *gorm.DB, defaultPageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}
		switch sortBy {
		case "created_at", "name", "price", "stock":
		default:
			sortBy = "created_at"
		}

		query := db.Model(&models.Product{})

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("name LIKE ? OR description LIKE ?", likePattern, likePattern)
		}

		if minPriceStr != "" {
			if mp, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
				query = query.Where("price >= ?", mp)
			} else {
				response.Error(c, apierror.Validation(err))
				return
			}
		}
		if maxPriceStr != "" {
			if mp, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
				query = query.Where("price <= ?", mp)
			} else {
				response.Error(c, apierror.Validation(err))
				return
			}
		}

		page, size := response.ParsePage(c, defaultPageSize)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}

		var products []models.Product
		if err := query.
			Order(sortBy + " " + sortOrder).
			Offset((page - 1) * size).
			Limit(size).
			Find(&products).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.OK(c, response.NewPage(products, total, page, size))
	}
}
