package audit

import (
	"encoding/json"
	"fmt"
	"log"

	"ims-backend/internal/database"
	"ims-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog persists an audit trail row. Failures are logged but never bubble
// into the handler response; the audited action itself already committed.
func WriteLog(opts LogOptions) {
	// jsonb columns need "null" rather than an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	row := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&row).Error; err != nil {
		log.Printf("audit log write failed: %v", fmt.Errorf("%s %s/%d: %w", opts.Action, opts.EntityType, opts.EntityID, err))
	}
}
