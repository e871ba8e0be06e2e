package farms

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/db/models"
)

// FarmDTO exposes farm data in API responses.
type FarmDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"nome"`
	Street    string    `json:"rua"`
	District  string    `json:"bairro"`
	City      string    `json:"cidade"`
	Number    *string   `json:"numero,omitempty"`
	PhotoURL  *string   `json:"foto_sitio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateFarmDTO holds creation-time data for a new farm.
type CreateFarmDTO struct {
	Name     string
	Street   string
	District string
	City     string
	Number   *string
	PhotoURL *string
}

// ToModel maps the creation DTO into a persistable model.
func (d CreateFarmDTO) ToModel() *models.Farm {
	return &models.Farm{
		Name:     d.Name,
		Street:   d.Street,
		District: d.District,
		City:     d.City,
		Number:   d.Number,
		PhotoURL: d.PhotoURL,
	}
}

// FromModel maps the persisted farm into a DTO.
func FromModel(m *models.Farm) *FarmDTO {
	if m == nil {
		return nil
	}
	return &FarmDTO{
		ID:        m.ID,
		Name:      m.Name,
		Street:    m.Street,
		District:  m.District,
		City:      m.City,
		Number:    m.Number,
		PhotoURL:  m.PhotoURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
