package models

import (
	"time"

	"github.com/google/uuid"
)

// IdealCondition holds the target water parameters for a shrimp type.
type IdealCondition struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShrimpTypeID *uuid.UUID `gorm:"column:shrimp_type_id;type:uuid"`
	TempIdeal    *float64   `gorm:"column:temp_ideal"`
	PHIdeal      *float64   `gorm:"column:ph_ideal"`
	AmmoniaIdeal *float64   `gorm:"column:ammonia_ideal"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
