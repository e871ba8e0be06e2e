package models

import (
	"time"

	"github.com/google/uuid"
)

// Enclosure is a monitored shrimp tank ("cativeiro").
type Enclosure struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string     `gorm:"column:name;not null"`
	ShrimpTypeID     *uuid.UUID `gorm:"column:shrimp_type_id;type:uuid"`
	IdealConditionID *uuid.UUID `gorm:"column:ideal_condition_id;type:uuid"`
	DietID           *uuid.UUID `gorm:"column:diet_id;type:uuid"`
	PhotoURL         *string    `gorm:"column:photo_url"`
	InstalledAt      *time.Time `gorm:"column:installed_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
