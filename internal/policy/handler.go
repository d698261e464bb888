package policy

import (
	"errors"
	"net/url"
	"strings"

	"ims-backend/internal/audit"
	"ims-backend/internal/auth"
	"ims-backend/internal/database"
	"ims-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PolicyResponse struct {
	PolicyID     uint    `json:"policy_id"`
	PolicyNumber string  `json:"policy_number"`
	CustomerName string  `json:"customer_name"`
	Type         string  `json:"type"`
	Premium      float64 `json:"premium"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	UserID       int     `json:"user_id"`
}

type CreatePolicyRequest struct {
	PolicyNumber string  `json:"policy_number"`
	CustomerName string  `json:"customer_name"`
	Type         string  `json:"type"`
	Premium      float64 `json:"premium"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	UserID       int     `json:"user_id"`
}

type UpdatePolicyRequest struct {
	PolicyNumber *string  `json:"policy_number"`
	CustomerName *string  `json:"customer_name"`
	Type         *string  `json:"type"`
	Premium      *float64 `json:"premium"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	UserID       *int     `json:"user_id"`
}

type VerifyResponse struct {
	Exists bool            `json:"exists"`
	Policy *PolicyResponse `json:"policy"`
}

func toResponse(p models.Policy) PolicyResponse {
	return PolicyResponse{
		PolicyID:     p.PolicyID,
		PolicyNumber: p.PolicyNumber,
		CustomerName: p.CustomerName,
		Type:         p.Type,
		Premium:      p.Premium,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		UserID:       p.UserID,
	}
}

func toResponseList(policies []models.Policy) []PolicyResponse {
	res := make([]PolicyResponse, 0, len(policies))
	for _, p := range policies {
		res = append(res, toResponse(p))
	}
	return res
}

// VerifyNumber resolves a policy number to its policy. Returns (nil, nil)
// when the number does not resolve; the claim side treats that as an
// expected condition, not an error.
func VerifyNumber(policyNumber string) (*models.Policy, error) {
	var p models.Policy
	err := database.DB.First(&p, "policy_number = ?", policyNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func ListPoliciesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var policies []models.Policy
		if err := database.DB.Order("policy_id DESC").Find(&policies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list policies")
		}
		return c.JSON(toResponseList(policies))
	}
}

func CreatePolicyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePolicyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.PolicyNumber = strings.TrimSpace(body.PolicyNumber)
		body.CustomerName = strings.TrimSpace(body.CustomerName)

		if body.PolicyNumber == "" || body.CustomerName == "" || body.Type == "" {
			return fiber.NewError(fiber.StatusBadRequest, "policy_number, customer_name and type are required")
		}
		if err := Validate(body.Premium, body.UserID, body.StartDate, body.EndDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var exist models.Policy
		if err := database.DB.Where("policy_number = ?", body.PolicyNumber).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "policy_number exists")
		}

		p := models.Policy{
			PolicyNumber: body.PolicyNumber,
			CustomerName: body.CustomerName,
			Type:         body.Type,
			Premium:      body.Premium,
			StartDate:    body.StartDate,
			EndDate:      body.EndDate,
			UserID:       body.UserID,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create policy")
		}

		sess := auth.FromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      sess.AuthID,
			UserName:    sess.Username,
			EntityType:  "policy",
			EntityID:    p.PolicyID,
			Action:      models.AuditActionCreate,
			Description: "Policy " + p.PolicyNumber + " created",
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(p))
	}
}

func GetPolicyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Policy
		if err := database.DB.First(&p, "policy_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Policy not found")
		}
		return c.JSON(toResponse(p))
	}
}

func UpdatePolicyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Policy
		if err := database.DB.First(&p, "policy_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Policy not found")
		}
		before := p

		var body UpdatePolicyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.PolicyNumber != nil {
			number := strings.TrimSpace(*body.PolicyNumber)
			if number == "" {
				return fiber.NewError(fiber.StatusBadRequest, "policy_number cannot be empty")
			}
			var exist models.Policy
			if err := database.DB.
				Where("policy_number = ? AND policy_id <> ?", number, p.PolicyID).
				First(&exist).Error; err == nil {
				return fiber.NewError(fiber.StatusConflict, "policy_number exists")
			}
			p.PolicyNumber = number
		}
		if body.CustomerName != nil {
			p.CustomerName = strings.TrimSpace(*body.CustomerName)
		}
		if body.Type != nil {
			p.Type = *body.Type
		}
		if body.Premium != nil {
			p.Premium = *body.Premium
		}
		if body.StartDate != nil {
			p.StartDate = *body.StartDate
		}
		if body.EndDate != nil {
			p.EndDate = *body.EndDate
		}
		if body.UserID != nil {
			p.UserID = *body.UserID
		}

		// Validate the merged record, so a patch cannot leave the policy in
		// a state that create would have refused.
		if err := Validate(p.Premium, p.UserID, p.StartDate, p.EndDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update policy")
		}

		sess := auth.FromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      sess.AuthID,
			UserName:    sess.Username,
			EntityType:  "policy",
			EntityID:    p.PolicyID,
			Action:      models.AuditActionUpdate,
			Description: "Policy " + p.PolicyNumber + " updated",
			Before:      before,
			After:       p,
		})

		return c.JSON(toResponse(p))
	}
}

func DeletePolicyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Policy
		if err := database.DB.First(&p, "policy_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Policy not found")
		}

		if err := database.DB.Delete(&models.Policy{}, "policy_id = ?", p.PolicyID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete policy")
		}

		sess := auth.FromCtx(c)
		audit.WriteLog(audit.LogOptions{
			UserID:      sess.AuthID,
			UserName:    sess.Username,
			EntityType:  "policy",
			EntityID:    p.PolicyID,
			Action:      models.AuditActionDelete,
			Description: "Policy " + p.PolicyNumber + " deleted",
			Before:      p,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/policies/search?q=
func SearchPoliciesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ownerID := ClassifyQuery(c.Query("q"))

		var policies []models.Policy
		q := database.DB.Order("policy_id DESC")

		switch kind {
		case SearchOwner:
			q = q.Where("user_id = ?", ownerID)
		case SearchText:
			like := "%" + strings.ToLower(strings.TrimSpace(c.Query("q"))) + "%"
			q = q.Where(
				"LOWER(policy_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(type) LIKE ?",
				like, like, like,
			)
		}

		if err := q.Find(&policies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not search policies")
		}
		return c.JSON(toResponseList(policies))
	}
}

// GET /api/policies/by-user/:user_id — a user may only see their own
// policies, an admin may see anyone's.
func ByUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.ParseUserIDParam(c)
		if err != nil {
			return err
		}

		sess := auth.FromCtx(c)
		if !sess.IsAdmin() && sess.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "You may only view your own policies")
		}

		var policies []models.Policy
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("policy_id DESC").
			Find(&policies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list policies")
		}
		return c.JSON(toResponseList(policies))
	}
}

// GET /api/policies/verify/:policy_number
func VerifyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, err := decodeParam(c, "policy_number")
		if err != nil {
			return err
		}

		p, err := VerifyNumber(number)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not verify policy")
		}
		if p == nil {
			return c.JSON(VerifyResponse{Exists: false, Policy: nil})
		}
		res := toResponse(*p)
		return c.JSON(VerifyResponse{Exists: true, Policy: &res})
	}
}

// decodeParam reads a route parameter that may carry URL-escaped characters
// (policy numbers are user-assigned strings).
func decodeParam(c *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil || strings.TrimSpace(v) == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}
	return v, nil
}
