package reconcile

import (
	"ims-backend/internal/database"
	"ims-backend/internal/models"
	"ims-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
)

type DashboardSummaryResponse struct {
	PendingClaims  int             `json:"pending_claims"`
	UniqueUsers    int             `json:"unique_users"`
	OwnerByClaim   map[uint]int    `json:"claim_user_ids"`
	RemarksByClaim map[uint]string `json:"claim_remarks"`
}

// GET /api/dashboard/summary — the admin dashboard statistics: pending claim
// count, distinct affected users and the claim→owner map built by a full
// reconciliation pass.
func DashboardSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var policies []models.Policy
		if err := database.DB.Order("policy_id DESC").Find(&policies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load policies")
		}

		var claims []models.Claim
		if err := database.DB.Order("claim_id DESC").Find(&claims).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load claims")
		}

		res := Decorate(claims, policy.VerifyNumber)

		return c.JSON(DashboardSummaryResponse{
			PendingClaims:  PendingCount(claims),
			UniqueUsers:    UniqueAffectedUsers(policies, res.OwnerByClaim),
			OwnerByClaim:   res.OwnerByClaim,
			RemarksByClaim: res.RemarksByClaim,
		})
	}
}
