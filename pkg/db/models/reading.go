package models

import (
	"time"

	"github.com/google/uuid"
)

// Reading is one telemetry sample for an enclosure. Append-only.
type Reading struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EnclosureID uuid.UUID `gorm:"column:enclosure_id;type:uuid;not null;index"`
	Temperature *float64  `gorm:"column:temperature"`
	PH          *float64  `gorm:"column:ph"`
	Ammonia     *float64  `gorm:"column:ammonia"`
	RecordedAt  time.Time `gorm:"column:recorded_at;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
