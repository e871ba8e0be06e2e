package models

import (
	"time"

	"github.com/google/uuid"
)

// Farm represents the canonical tenant model.
type Farm struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Street    string    `gorm:"column:street;not null"`
	District  string    `gorm:"column:district;not null"`
	City      string    `gorm:"column:city;not null"`
	Number    *string   `gorm:"column:number"`
	PhotoURL  *string   `gorm:"column:photo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
