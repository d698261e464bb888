package claim

import (
	"mime/multipart"
	"strings"

	"ims-backend/internal/audit"
	"ims-backend/internal/auth"
	"ims-backend/internal/config"
	"ims-backend/internal/database"
	"ims-backend/internal/models"
	"ims-backend/internal/policy"
	"ims-backend/internal/reconcile"
	"ims-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
)

type ClaimResponse struct {
	ClaimID      uint               `json:"claim_id"`
	PolicyNumber string             `json:"policy_number"`
	Description  string             `json:"description"`
	Status       models.ClaimStatus `json:"status"`
	Remarks      string             `json:"remarks"`
	Attachment   string             `json:"attachment"`
	CreatedAt    string             `json:"created_at"`
}

type CreateClaimRequest struct {
	PolicyNumber string `json:"policy_number"`
	Description  string `json:"description"`
}

type UpdateClaimRequest struct {
	PolicyNumber *string             `json:"policy_number"`
	Description  *string             `json:"description"`
	Status       *models.ClaimStatus `json:"status"`
	Remarks      *string             `json:"remarks"`
	Attachment   *string             `json:"attachment"`
}

type RemarksRequest struct {
	Remarks string `json:"remarks"`
}

func toResponse(cl models.Claim) ClaimResponse {
	return ClaimResponse{
		ClaimID:      cl.ClaimID,
		PolicyNumber: cl.PolicyNumber,
		Description:  cl.Description,
		Status:       cl.Status,
		Remarks:      cl.Remarks,
		Attachment:   cl.Attachment,
		CreatedAt:    cl.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toResponseList(claims []models.Claim) []ClaimResponse {
	res := make([]ClaimResponse, 0, len(claims))
	for _, cl := range claims {
		res = append(res, toResponse(cl))
	}
	return res
}

// GET /api/claims — admins see everything, users see only claims whose
// resolved policy owner is themselves.
func ListClaimsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var claims []models.Claim
		if err := database.DB.Order("claim_id DESC").Find(&claims).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list claims")
		}

		sess := auth.FromCtx(c)
		if !sess.IsAdmin() {
			claims = reconcile.ClaimsForUser(claims, sess.UserID, policy.VerifyNumber)
		}
		return c.JSON(toResponseList(claims))
	}
}

// GET /api/claims/by-user/:user_id
func ByUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.ParseUserIDParam(c)
		if err != nil {
			return err
		}

		sess := auth.FromCtx(c)
		if !sess.IsAdmin() && sess.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "You may only view your own claims")
		}

		var claims []models.Claim
		if err := database.DB.Order("claim_id DESC").Find(&claims).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list claims")
		}

		claims = reconcile.ClaimsForUser(claims, userID, policy.VerifyNumber)
		return c.JSON(toResponseList(claims))
	}
}

func GetClaimHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cl models.Claim
		if err := database.DB.First(&cl, "claim_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Claim not found")
		}
		return c.JSON(toResponse(cl))
	}
}

// POST /api/claims — JSON body or multipart form with an optional "file"
// attachment. Status is always forced to Pending and remarks to empty, no
// matter what the request carried. A non-admin may only file claims against
// a policy they own.
func CreateClaimHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var policyNumber, description string
		var fileHeader *multipart.FileHeader

		if form, err := c.MultipartForm(); err == nil && form != nil {
			policyNumber = c.FormValue("policy_number")
			description = c.FormValue("description")
			if files := form.File["file"]; len(files) > 0 {
				fileHeader = files[0]
			}
		} else {
			var body CreateClaimRequest
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
			}
			policyNumber = body.PolicyNumber
			description = body.Description
		}

		policyNumber = strings.TrimSpace(policyNumber)
		description = strings.TrimSpace(description)
		if policyNumber == "" || description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "policy_number and description are required")
		}

		sess := auth.FromCtx(c)
		if !sess.IsAdmin() {
			p, err := policy.VerifyNumber(policyNumber)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not verify policy")
			}
			if p == nil || p.UserID != sess.UserID {
				return fiber.NewError(fiber.StatusForbidden, "policy not owned by user")
			}
		}

		// Store the attachment before the record so a failed upload creates
		// no claim.
		var attachment string
		if fileHeader != nil {
			name, err := uploads.Save(c, fileHeader, cfg.UploadPath)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not store attachment")
			}
			attachment = name
		}

		cl := models.Claim{
			PolicyNumber: policyNumber,
			Description:  description,
			Status:       models.ClaimStatusPending,
			Remarks:      "",
			Attachment:   attachment,
		}

		if err := database.DB.Create(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create claim")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(cl))
	}
}

// PUT /api/claims/:id — admin-only patch. Status transitions outside of
// approve/reject are an admin repair tool, not part of the claim lifecycle.
func UpdateClaimHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cl models.Claim
		if err := database.DB.First(&cl, "claim_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Claim not found")
		}
		before := cl

		var body UpdateClaimRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.PolicyNumber != nil {
			number := strings.TrimSpace(*body.PolicyNumber)
			if number == "" {
				return fiber.NewError(fiber.StatusBadRequest, "policy_number cannot be empty")
			}
			cl.PolicyNumber = number
		}
		if body.Description != nil {
			cl.Description = *body.Description
		}
		if body.Status != nil {
			switch *body.Status {
			case models.ClaimStatusPending, models.ClaimStatusApproved, models.ClaimStatusRejected:
				cl.Status = *body.Status
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status must be Pending, Approved or Rejected")
			}
		}
		if body.Remarks != nil {
			cl.Remarks = *body.Remarks
		}
		if body.Attachment != nil {
			cl.Attachment = *body.Attachment
		}

		if err := database.DB.Save(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update claim")
		}

		sess := auth.FromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      sess.AuthID,
			UserName:    sess.Username,
			EntityType:  "claim",
			EntityID:    cl.ClaimID,
			Action:      models.AuditActionUpdate,
			Description: "Claim updated",
			Before:      before,
			After:       cl,
		})

		return c.JSON(toResponse(cl))
	}
}

// DELETE /api/claims/:id — by the claim's owner or an admin. Ownership is
// resolved through the policy; a claim whose policy is gone can only be
// removed by an admin.
func DeleteClaimHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cl models.Claim
		if err := database.DB.First(&cl, "claim_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Claim not found")
		}

		sess := auth.FromCtx(c)
		if !sess.IsAdmin() {
			p, err := policy.VerifyNumber(cl.PolicyNumber)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not verify claim ownership")
			}
			if p == nil || p.UserID != sess.UserID {
				return fiber.NewError(fiber.StatusForbidden, "You may only delete your own claims")
			}
		}

		if err := database.DB.Delete(&models.Claim{}, "claim_id = ?", cl.ClaimID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete claim")
		}

		audit.WriteLog(audit.LogOptions{
			UserID:      sess.AuthID,
			UserName:    sess.Username,
			EntityType:  "claim",
			EntityID:    cl.ClaimID,
			Action:      models.AuditActionDelete,
			Description: "Claim deleted",
			Before:      cl,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/claims/:id/approve
func ApproveClaimHandler() fiber.Handler {
	return decideClaimHandler(models.ClaimStatusApproved, models.AuditActionApprove, "Approved by admin")
}

// POST /api/claims/:id/reject
func RejectClaimHandler() fiber.Handler {
	return decideClaimHandler(models.ClaimStatusRejected, models.AuditActionReject, "Rejected by admin")
}

// decideClaimHandler sets status and remarks in one save. Empty remarks fall
// back to the default wording. Deciding an already-decided claim overwrites
// the prior decision; admins use this to revise remarks or reverse a call.
func decideClaimHandler(status models.ClaimStatus, action models.AuditAction, defaultRemarks string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cl models.Claim
		if err := database.DB.First(&cl, "claim_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Claim not found")
		}
		before := cl

		var body RemarksRequest
		// an empty body just means default remarks
		_ = c.BodyParser(&body)

		remarks := strings.TrimSpace(body.Remarks)
		if remarks == "" {
			remarks = defaultRemarks
		}

		cl.Status = status
		cl.Remarks = remarks

		if err := database.DB.Save(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update claim")
		}

		sess := auth.FromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      sess.AuthID,
			UserName:    sess.Username,
			EntityType:  "claim",
			EntityID:    cl.ClaimID,
			Action:      action,
			Description: string(status) + ": " + remarks,
			Before:      before,
			After:       cl,
		})

		return c.JSON(toResponse(cl))
	}
}
