package enclosures

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/internal/sensors"
	"github.com/camarize/camarize-backend/pkg/db/models"
)

// EnclosureDTO exposes enclosure data in API responses.
type EnclosureDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"nome"`
	ShrimpTypeID *uuid.UUID `json:"id_tipo_camarao,omitempty"`
	DietID       *uuid.UUID `json:"id_dieta,omitempty"`
	PhotoURL     *string    `json:"foto_cativeiro,omitempty"`
	InstalledAt  *time.Time `json:"data_instalacao,omitempty"`
	FarmID       *uuid.UUID `json:"fazenda_id,omitempty"`

	TempIdeal    *float64 `json:"temp_media_diaria,omitempty"`
	PHIdeal      *float64 `json:"ph_medio_diario,omitempty"`
	AmmoniaIdeal *float64 `json:"amonia_media_diaria,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShrimpTypeDTO names the species raised in an enclosure.
type ShrimpTypeDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"nome"`
}

// DietDTO exposes the feeding plan attached to an enclosure.
type DietDTO struct {
	ID          uuid.UUID `json:"id"`
	Description *string   `json:"descricao,omitempty"`
	MealTimes   []string  `json:"horarios,omitempty"`
	MealsPerDay *int      `json:"quantidade_refeicoes,omitempty"`
	Quantity    float64   `json:"quantidade"`
}

// EnclosureWithSensorsDTO adds the linked sensors and reference data to
// the enclosure view.
type EnclosureWithSensorsDTO struct {
	EnclosureDTO
	ShrimpType *ShrimpTypeDTO      `json:"tipo_camarao,omitempty"`
	Diet       *DietDTO            `json:"dieta,omitempty"`
	Sensors    []sensors.SensorDTO `json:"sensores"`
}

// CreateEnclosureDTO holds creation-time data for a new enclosure.
type CreateEnclosureDTO struct {
	Name         string
	FarmID       uuid.UUID
	ShrimpTypeID *uuid.UUID
	DietID       *uuid.UUID
	PhotoURL     *string
	InstalledAt  *time.Time
	TempIdeal    *float64
	PHIdeal      *float64
	AmmoniaIdeal *float64
}

// UpdateEnclosureDTO captures the allowed patch fields.
type UpdateEnclosureDTO struct {
	Name         *string
	ShrimpTypeID *uuid.UUID
	DietID       *uuid.UUID
	PhotoURL     *string
	InstalledAt  *time.Time
	TempIdeal    *float64
	PHIdeal      *float64
	AmmoniaIdeal *float64
}

// FromModel maps the persisted enclosure into a DTO.
func FromModel(m *models.Enclosure, cond *models.IdealCondition, farmID *uuid.UUID) *EnclosureDTO {
	if m == nil {
		return nil
	}
	dto := &EnclosureDTO{
		ID:           m.ID,
		Name:         m.Name,
		ShrimpTypeID: m.ShrimpTypeID,
		DietID:       m.DietID,
		PhotoURL:     m.PhotoURL,
		InstalledAt:  m.InstalledAt,
		FarmID:       farmID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if cond != nil {
		dto.TempIdeal = cond.TempIdeal
		dto.PHIdeal = cond.PHIdeal
		dto.AmmoniaIdeal = cond.AmmoniaIdeal
	}
	return dto
}
