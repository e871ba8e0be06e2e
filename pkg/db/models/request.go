package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/enums"
)

// Request is a pending change proposal reviewed by a higher-privilege role.
// Status only ever moves pendente -> aprovado or pendente -> recusado;
// resolution stamps the approver.
type Request struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequesterUserID *uuid.UUID          `gorm:"column:requester_user_id;type:uuid"`
	RequesterRole   enums.UserRole      `gorm:"column:requester_role;type:text;not null"`
	TargetRole      enums.UserRole      `gorm:"column:target_role;type:text;not null"`
	Type            enums.RequestType   `gorm:"column:type;type:text;not null"`
	Action          enums.RequestAction `gorm:"column:action;type:text;not null"`
	Payload         json.RawMessage     `gorm:"column:payload;type:jsonb;not null"`
	FarmID          *uuid.UUID          `gorm:"column:farm_id;type:uuid"`
	Status          enums.RequestStatus `gorm:"column:status;type:text;not null;default:'pendente'"`
	ApproverUserID  *uuid.UUID          `gorm:"column:approver_user_id;type:uuid"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
