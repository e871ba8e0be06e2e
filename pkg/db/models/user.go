package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	PhotoURL     *string        `gorm:"column:photo_url"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'membro'"`
	LegacyFarmID *uuid.UUID     `gorm:"column:legacy_farm_id;type:uuid"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
