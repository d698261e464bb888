package auth

import (
	"strconv"
	"strings"

	"ims-backend/internal/config"
	"ims-backend/internal/database"
	"ims-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserID   *int   `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)

		if body.Username == "" || body.Password == "" || body.UserID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "username, password and user_id are required")
		}
		if *body.UserID < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "user_id must be non-negative")
		}

		var exist models.User
		if err := database.DB.Where("username = ?", body.Username).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "username already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
			UserID:       *body.UserID,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "registered",
			"token":   token,
			"role":    user.Role,
			"user_id": user.UserID,
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)

		var user models.User
		if err := database.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.JSON(fiber.Map{
			"token":    token,
			"role":     user.Role,
			"username": user.Username,
			"user_id":  user.UserID,
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := FromCtx(c)
		if !sess.IsAuthenticated() {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}

		return c.JSON(fiber.Map{
			"username": sess.Username,
			"role":     sess.Role,
			"user_id":  sess.UserID,
		})
	}
}

// ParseUserIDParam reads a non-negative integer :user_id route parameter.
func ParseUserIDParam(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("user_id"))
	if err != nil || id < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "user_id must be a non-negative integer")
	}
	return id, nil
}
