package uploads

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"ims-backend/internal/auth"
	"ims-backend/internal/config"
	"ims-backend/internal/database"
	"ims-backend/internal/models"
	"ims-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// GET /uploads/:name?token=..&dl=1
//
// Attachment retrieval lives outside the /api group: the browser loads these
// URLs directly (img src, download links), so the credential arrives as a
// token query parameter rather than a bearer header. A non-admin may only
// fetch attachments of claims whose policy they own.
func ServeAttachmentHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || !SafeName(name) {
			return fiber.NewError(fiber.StatusNotFound, "Attachment not found")
		}

		token := c.Query("token")
		if token == "" {
			// fall back to the bearer header for API clients
			if h := c.Get("Authorization"); strings.HasPrefix(strings.ToLower(h), "bearer ") {
				token = h[len("Bearer "):]
			}
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}

		claims, err := auth.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		if claims.Role != models.RoleAdmin {
			var claim models.Claim
			if err := database.DB.First(&claim, "attachment = ?", name).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Attachment not found")
			}
			p, err := policy.VerifyNumber(claim.PolicyNumber)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not verify claim ownership")
			}
			if p == nil || p.UserID != claims.UserID {
				return fiber.NewError(fiber.StatusForbidden, "You may only view your own attachments")
			}
		}

		path := filepath.Join(cfg.UploadPath, name)
		if _, err := os.Stat(path); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Attachment not found")
		}

		disposition := "inline"
		if c.Query("dl") == "1" {
			disposition = "attachment"
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, name))

		return c.SendFile(path)
	}
}
