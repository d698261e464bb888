package auth

import (
	"strings"

	"ims-backend/internal/config"
	"ims-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization format must be 'Bearer <token>'")
		}

		tokenStr := parts[1]

		claims, err := ParseToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(CtxSessionKey, NewSession(tokenStr, claims))

		return c.Next()
	}
}

// RequireRole checks authentication before the role so an unauthenticated
// request is answered 401 without ever comparing roles.
func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := FromCtx(c)
		if !sess.IsAuthenticated() {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}

		for _, r := range allowedRoles {
			if sess.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	}
}
