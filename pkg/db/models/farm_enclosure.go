package models

import (
	"time"

	"github.com/google/uuid"
)

// FarmEnclosure links an enclosure to the farm it belongs to.
type FarmEnclosure struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FarmID      uuid.UUID `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:farm_enclosures_farm_enclosure_key"`
	EnclosureID uuid.UUID `gorm:"column:enclosure_id;type:uuid;not null;uniqueIndex:farm_enclosures_farm_enclosure_key"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
