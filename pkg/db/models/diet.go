package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Diet describes the feeding plan attached to an enclosure.
type Diet struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Description *string        `gorm:"column:description"`
	MealTimes   pq.StringArray `gorm:"column:meal_times;type:text[]"`
	MealsPerDay *int           `gorm:"column:meals_per_day"`
	Quantity    float64        `gorm:"column:quantity;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
