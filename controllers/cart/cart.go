package cartControllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

type AddToCartInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// domainErr keeps ApiErrors intact across a rolled-back transaction and
// wraps anything else as a transaction failure.
func domainErr(err error) error {
	var apiErr *apierror.ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierror.TxFailure(err)
}

// AddToCart puts quantity units of a product into the user's cart,
// creating the cart on first use. The requested quantity is reserved by
// decrementing product stock; everything runs in one transaction.
func AddToCart(db *gorm.DB, userID, productID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem

	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := models.LockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("product")
			}
			return err
		}

		if quantity > product.Stock {
			return apierror.InsufficientStock(product.Name)
		}

		// Lazily create the cart on first add
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}

		err := tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: product.ID,
				UnitPrice: product.Price,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.Quantity += quantity
			item.AddedAt = time.Now()
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		product.Stock -= quantity
		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, domainErr(err)
	}
	return &item, nil
}

// RemoveCartItem removes one unit from a cart line. A line with quantity
// 1 is deleted, otherwise the quantity is decremented; either way one
// unit goes back into product stock.
func RemoveCartItem(db *gorm.DB, userID, itemID uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("cart item")
			}
			return err
		}

		var cart models.Cart
		if err := tx.First(&cart, "cart_id = ?", item.CartID).Error; err != nil {
			return err
		}
		if cart.UserID != userID {
			return apierror.Forbidden()
		}

		if item.Quantity <= 1 {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
		} else {
			item.Quantity--
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		var product models.Product
		if err := models.LockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
			return err
		}
		product.Stock++
		return tx.Save(&product).Error
	})
	if err != nil {
		return domainErr(err)
	}
	return nil
}

// POST /carts/cart
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			response.Error(c, apierror.InvalidCredentials())
			return
		}

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		item, err := AddToCart(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, item)
	}
}

// GET /carts/cart/:id
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			response.Error(c, apierror.InvalidCredentials())
			return
		}
		cartID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("cart"))
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").First(&cart, "cart_id = ?", cartID).Error; err != nil {
			response.Error(c, apierror.NotFound("cart"))
			return
		}

		roleVal, _ := c.Get("role")
		if cart.UserID != userID && roleVal != models.RoleAdmin {
			response.Error(c, apierror.Forbidden())
			return
		}
		response.OK(c, cart)
	}
}

// DELETE /carts/cart/:id — removes one unit of the given cart item.
func RemoveCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			response.Error(c, apierror.InvalidCredentials())
			return
		}
		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("cart item"))
			return
		}

		if err := RemoveCartItem(db, userID, uint(itemID)); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Cart item removed"})
	}
}
