package models

import (
	"time"

	"github.com/google/uuid"
)

// EnclosureSensor links a sensor to the enclosure it monitors.
type EnclosureSensor struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EnclosureID uuid.UUID `gorm:"column:enclosure_id;type:uuid;not null;uniqueIndex:enclosure_sensors_enclosure_sensor_key"`
	SensorID    uuid.UUID `gorm:"column:sensor_id;type:uuid;not null;uniqueIndex:enclosure_sensors_enclosure_sensor_key"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
