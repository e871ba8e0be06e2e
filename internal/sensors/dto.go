package sensors

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
)

// SensorDTO exposes sensor data in API responses.
type SensorDTO struct {
	ID        uuid.UUID        `json:"id"`
	Kind      enums.SensorKind `json:"tipo"`
	Nickname  *string          `json:"apelido,omitempty"`
	UserID    *uuid.UUID       `json:"id_usuario,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CreateSensorDTO holds creation-time data for a new sensor.
type CreateSensorDTO struct {
	Kind     string
	Nickname *string
	UserID   *uuid.UUID
}

// FromModel maps the persisted sensor into a DTO.
func FromModel(m *models.Sensor) *SensorDTO {
	if m == nil {
		return nil
	}
	return &SensorDTO{
		ID:        m.ID,
		Kind:      m.Kind,
		Nickname:  m.Nickname,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
