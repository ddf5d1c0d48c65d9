package orderControllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/queue"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// mapOrderStatus validates a client-supplied status string.
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(status) {
	case models.OrderStatusPending, models.OrderStatusCreated,
		models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return models.OrderStatus(status), nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Generate unique order reference
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Checkout converts the user's cart into an order. Within one
// transaction it creates the order, copies every cart line into an
// order line at the product's current price, decrements product stock
// per line and clears the cart. Any failure rolls back every write: a
// failed checkout leaves no order, no order items and no stock change.
func Checkout(db *gorm.DB, userID uint) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.CartEmpty()
		}
		return nil, apierror.Internal(err)
	}
	if len(cart.Items) == 0 {
		return nil, apierror.CartEmpty()
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var total float64
		var orderItems []models.OrderItem
		itemIDs := make([]uint, 0, len(cart.Items))

		// Process cart items
		for _, item := range cart.Items {
			itemIDs = append(itemIDs, item.ID)
			var product models.Product
			if err := models.LockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				return apierror.InsufficientStock(product.Name)
			}

			// Deduct stock
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			total += product.Price * float64(item.Quantity)

			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
		}

		order = models.Order{
			UserID:      userID,
			Items:       orderItems,
			TotalAmount: total,
			Status:      models.OrderStatusCreated,
			OrderRef:    generateOrderRef(),
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear only the snapshotted lines, keep the cart row. A line
		// added since the snapshot keeps its stock reservation for the
		// next checkout.
		return tx.Where("id IN ?", itemIDs).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		var apiErr *apierror.ApiError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, apierror.TxFailure(err)
	}
	return &order, nil
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB, q *queue.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			response.Error(c, apierror.InvalidCredentials())
			return
		}

		order, err := Checkout(db, userID)
		if err != nil {
			response.Error(c, err)
			return
		}

		broadcastNewOrder(*order)

		// Fire-and-forget confirmation mail
		if email, exists := c.Get("email"); exists {
			q.PublishEmail(c.Request.Context(), queue.EmailMessage{
				Email:   email.(string),
				Subject: "Order confirmation",
				Message: fmt.Sprintf("Your order %s has been created (total %.2f).", order.OrderRef, order.TotalAmount),
			})
		}

		response.Created(c, order)
	}
}

// GET /orders/:id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			response.Error(c, apierror.InvalidCredentials())
			return
		}
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("order"))
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			response.Error(c, apierror.NotFound("order"))
			return
		}

		roleVal, _ := c.Get("role")
		if order.UserID != userID && roleVal != models.RoleAdmin {
			response.Error(c, apierror.Forbidden())
			return
		}
		response.OK(c, order)
	}
}

// GET /orders — the authenticated user's orders, newest first.
func ListOrdersHandler(db *gorm.DB, defaultPageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			response.Error(c, apierror.InvalidCredentials())
			return
		}
		page, size := response.ParsePage(c, defaultPageSize)

		query := db.Model(&models.Order{}).Where("user_id = ?", userID)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}

		var orders []models.Order
		if err := query.
			Preload("Items").
			Order("created_at DESC").
			Offset((page - 1) * size).
			Limit(size).
			Find(&orders).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.OK(c, response.NewPage(orders, total, page, size))
	}
}

// PATCH /orders/:id/status (admin)
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("order"))
			return
		}

		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}
		status, err := mapOrderStatus(input.Status)
		if err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			response.Error(c, apierror.NotFound("order"))
			return
		}

		if err := db.Model(&order).Update("status", status).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.OK(c, order)
	}
}
