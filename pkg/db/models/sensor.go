package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/enums"
)

// Sensor is a physical probe owned by a user.
type Sensor struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Kind      enums.SensorKind `gorm:"column:kind;type:text;not null"`
	Nickname  *string          `gorm:"column:nickname"`
	UserID    *uuid.UUID       `gorm:"column:user_id;type:uuid"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
