package sensors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
)

// Repository exposes sensor persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a sensor by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sensor, error) {
	var sensor models.Sensor
	if err := r.db.WithContext(ctx).First(&sensor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sensor, nil
}

// ListByUser returns the sensors owned by the user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Sensor, error) {
	var rows []models.Sensor
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUserAndKind returns the user's sensors of one kind.
func (r *Repository) ListByUserAndKind(ctx context.Context, userID uuid.UUID, kind enums.SensorKind) ([]models.Sensor, error) {
	var rows []models.Sensor
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new sensor and returns the persisted model.
func (r *Repository) Create(ctx context.Context, sensor *models.Sensor) (*models.Sensor, error) {
	if err := r.db.WithContext(ctx).Create(sensor).Error; err != nil {
		return nil, err
	}
	return sensor, nil
}

// UpdateNickname overwrites the sensor's nickname.
func (r *Repository) UpdateNickname(ctx context.Context, id uuid.UUID, nickname *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Sensor{}).
		Where("id = ?", id).
		UpdateColumn("nickname", nickname).Error
}

// Delete removes the sensor and its enclosure links.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("sensor_id = ?", id).
		Delete(&models.EnclosureSensor{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Sensor{}, "id = ?", id).Error
}
