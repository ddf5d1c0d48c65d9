package userControllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/middleware"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

type CreateUserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// isSelfOrAdmin allows a user to touch their own record and admins to
// touch anyone's.
func isSelfOrAdmin(c *gin.Context, targetID uint) bool {
	userID, ok := middleware.UserID(c)
	if !ok {
		return false
	}
	if userID == targetID {
		return true
	}
	roleVal, _ := c.Get("role")
	return roleVal == models.RoleAdmin
}

// POST /users (admin) — create a user with an explicit role.
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		role := models.RoleUser
		if input.Role != "" {
			switch models.Role(input.Role) {
			case models.RoleUser, models.RoleAdmin:
				role = models.Role(input.Role)
			default:
				response.Error(c, apierror.Validation(errors.New("invalid role")))
				return
			}
		}

		var existing models.User
		err := db.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			response.Error(c, apierror.Duplicate("user"))
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, apierror.Internal(err))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}

		user := models.User{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: string(hash),
			Role:         role,
		}
		if err := db.Create(&user).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.Created(c, user)
	}
}

// GET /users (admin)
func GetAllUsers(db *gorm.DB, defaultPageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := response.ParsePage(c, defaultPageSize)

		var total int64
		if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}

		var users []models.User
		if err := db.
			Order("created_at desc").
			Offset((page - 1) * size).
			Limit(size).
			Find(&users).Error; err != nil {
			response.Error(c, apierror.Internal(err))
			return
		}
		response.OK(c, response.NewPage(users, total, page, size))
	}
}

// GET /users/:id
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("user"))
			return
		}
		if !isSelfOrAdmin(c, uint(id)) {
			response.Error(c, apierror.Forbidden())
			return
		}

		var user models.User
		if err := db.Preload("Cart.Items").First(&user, "id = ?", id).Error; err != nil {
			response.Error(c, apierror.NotFound("user"))
			return
		}
		response.OK(c, user)
	}
}

// PATCH /users/:id
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("user"))
			return
		}
		if !isSelfOrAdmin(c, uint(id)) {
			response.Error(c, apierror.Forbidden())
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			response.Error(c, apierror.NotFound("user"))
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				response.Error(c, apierror.Internal(err))
				return
			}
			updates["password_hash"] = string(hash)
		}
		if input.Role != nil {
			// Only admins may change roles
			roleVal, _ := c.Get("role")
			if roleVal != models.RoleAdmin {
				response.Error(c, apierror.Forbidden())
				return
			}
			switch models.Role(*input.Role) {
			case models.RoleUser, models.RoleAdmin:
				updates["role"] = *input.Role
			default:
				response.Error(c, apierror.Validation(errors.New("invalid role")))
				return
			}
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				response.Error(c, apierror.Internal(err))
				return
			}
		}
		response.OK(c, user)
	}
}

// DELETE /users/:id (admin) — cascades to the user's cart and its items.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, apierror.NotFound("user"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			response.Error(c, apierror.NotFound("user"))
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			if err := tx.Where("user_id = ?", user.ID).First(&cart).Error; err == nil {
				if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&cart).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			response.Error(c, apierror.TxFailure(err))
			return
		}
		response.OK(c, gin.H{"message": "User deleted"})
	}
}
