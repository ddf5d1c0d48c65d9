package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/apierror"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/models"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/queue"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/response"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user with a bcrypt password hash, rejecting
// duplicate emails.
func Register(db *gorm.DB, input RegisterInput) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, apierror.Duplicate("user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.Internal(err)
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, apierror.Internal(err)
	}
	return &user, nil
}

// Login checks the credentials and issues a token on success.
func Login(db *gorm.DB, input LoginInput) (string, *models.User, error) {
	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		return "", nil, apierror.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, apierror.InvalidCredentials()
	}

	token, err := GenerateToken(&user)
	if err != nil {
		return "", nil, apierror.Internal(err)
	}
	return token, &user, nil
}

// POST /auth/register
func RegisterHandler(db *gorm.DB, q *queue.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		user, err := Register(db, input)
		if err != nil {
			response.Error(c, err)
			return
		}

		// Fire-and-forget welcome mail
		q.PublishEmail(c.Request.Context(), queue.EmailMessage{
			Email:   user.Email,
			Subject: "Welcome",
			Message: "Hi " + user.Name + ", your account has been created.",
		})

		response.Created(c, user)
	}
}

// POST /auth/login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, apierror.Validation(err))
			return
		}

		token, user, err := Login(db, input)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.OK(c, gin.H{"token": token, "user": user})
	}
}
