package farms

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
)

// Repository exposes farm persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a farm by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).First(&farm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// ListAll returns every farm ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Farm, error) {
	var rows []models.Farm
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByIDs returns the farms matching the provided ids, ordered by name.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Farm, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Farm
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new farm and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateFarmDTO) (*models.Farm, error) {
	farm := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(farm).Error; err != nil {
		return nil, err
	}
	return farm, nil
}

// UpdatePhotoURL overwrites the farm's photo reference.
func (r *Repository) UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ?", id).
		UpdateColumn("photo_url", photoURL).Error
}
