package models

import (
	"time"

	"github.com/google/uuid"
)

// FarmMembership links a user to a farm. Rows created before the active
// flag existed carry NULL, which readers treat as active.
type FarmMembership struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:farm_memberships_user_farm_key"`
	FarmID    uuid.UUID `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:farm_memberships_user_farm_key"`
	Active    *bool     `gorm:"column:active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsActive treats NULL as active.
func (m FarmMembership) IsActive() bool {
	return m.Active == nil || *m.Active
}
