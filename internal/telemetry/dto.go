package telemetry

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/db/models"
)

// ReadingDTO exposes one telemetry sample.
type ReadingDTO struct {
	ID          uuid.UUID `json:"id"`
	EnclosureID uuid.UUID `json:"id_cativeiro"`
	Temperature *float64  `json:"temperatura,omitempty"`
	PH          *float64  `json:"ph,omitempty"`
	Ammonia     *float64  `json:"amonia,omitempty"`
	RecordedAt  time.Time `json:"datahora"`
}

// IngestReadingDTO holds one sample reported by sensor hardware.
type IngestReadingDTO struct {
	EnclosureID uuid.UUID
	Temperature *float64
	PH          *float64
	Ammonia     *float64
	RecordedAt  *time.Time
}

// DailyAverageDTO is one day of averaged water parameters.
type DailyAverageDTO struct {
	Day         time.Time `json:"dia"`
	Temperature *float64  `json:"temperatura,omitempty"`
	PH          *float64  `json:"ph,omitempty"`
	Ammonia     *float64  `json:"amonia,omitempty"`
}

// DashboardDTO combines the latest sample with recent daily averages.
type DashboardDTO struct {
	Latest        *ReadingDTO       `json:"atual,omitempty"`
	DailyAverages []DailyAverageDTO `json:"medias_diarias"`
}

// FromModel maps the persisted reading into a DTO.
func FromModel(m *models.Reading) *ReadingDTO {
	if m == nil {
		return nil
	}
	return &ReadingDTO{
		ID:          m.ID,
		EnclosureID: m.EnclosureID,
		Temperature: m.Temperature,
		PH:          m.PH,
		Ammonia:     m.Ammonia,
		RecordedAt:  m.RecordedAt,
	}
}
