package enclosures

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
)

// Repository exposes enclosure persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads an enclosure by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Enclosure, error) {
	var enclosure models.Enclosure
	if err := r.db.WithContext(ctx).First(&enclosure, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &enclosure, nil
}

// ListByFarm returns the enclosures linked to a farm.
func (r *Repository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Enclosure, error) {
	var rows []models.Enclosure
	err := r.db.WithContext(ctx).
		Joins("JOIN farm_enclosures ON farm_enclosures.enclosure_id = enclosures.id").
		Where("farm_enclosures.farm_id = ?", farmID).
		Order("enclosures.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FarmOf returns the farm an enclosure is linked to, if any.
func (r *Repository) FarmOf(ctx context.Context, enclosureID uuid.UUID) (*uuid.UUID, error) {
	var link models.FarmEnclosure
	err := r.db.WithContext(ctx).
		Where("enclosure_id = ?", enclosureID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link.FarmID, nil
}

// ShrimpTypeByID loads the species reference row.
func (r *Repository) ShrimpTypeByID(ctx context.Context, id uuid.UUID) (*models.ShrimpType, error) {
	var shrimpType models.ShrimpType
	if err := r.db.WithContext(ctx).First(&shrimpType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shrimpType, nil
}

// DietByID loads the feeding plan reference row.
func (r *Repository) DietByID(ctx context.Context, id uuid.UUID) (*models.Diet, error) {
	var diet models.Diet
	if err := r.db.WithContext(ctx).First(&diet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &diet, nil
}

// Create inserts the enclosure, its ideal condition, and the farm link.
func (r *Repository) Create(ctx context.Context, enclosure *models.Enclosure, cond *models.IdealCondition, farmID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if cond != nil {
		if err := db.Create(cond).Error; err != nil {
			return err
		}
		enclosure.IdealConditionID = &cond.ID
	}
	if err := db.Create(enclosure).Error; err != nil {
		return err
	}
	return db.Create(&models.FarmEnclosure{
		FarmID:      farmID,
		EnclosureID: enclosure.ID,
	}).Error
}

// Update saves the mutated enclosure fields.
func (r *Repository) Update(ctx context.Context, enclosure *models.Enclosure) error {
	return r.db.WithContext(ctx).Save(enclosure).Error
}

// IdealConditionByID loads an ideal condition row.
func (r *Repository) IdealConditionByID(ctx context.Context, id uuid.UUID) (*models.IdealCondition, error) {
	var cond models.IdealCondition
	if err := r.db.WithContext(ctx).First(&cond, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cond, nil
}

// SaveIdealCondition persists mutations to an ideal condition row.
func (r *Repository) SaveIdealCondition(ctx context.Context, cond *models.IdealCondition) error {
	return r.db.WithContext(ctx).Save(cond).Error
}

// Delete removes the enclosure together with its links and readings.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("enclosure_id = ?", id).Delete(&models.EnclosureSensor{}).Error; err != nil {
		return err
	}
	if err := db.Where("enclosure_id = ?", id).Delete(&models.FarmEnclosure{}).Error; err != nil {
		return err
	}
	if err := db.Where("enclosure_id = ?", id).Delete(&models.Reading{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Enclosure{}, "id = ?", id).Error
}

// LinkSensor attaches a sensor to the enclosure.
func (r *Repository) LinkSensor(ctx context.Context, enclosureID, sensorID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.EnclosureSensor{
		EnclosureID: enclosureID,
		SensorID:    sensorID,
	}).Error
}

// UnlinkSensor detaches a sensor from the enclosure.
func (r *Repository) UnlinkSensor(ctx context.Context, enclosureID, sensorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("enclosure_id = ? AND sensor_id = ?", enclosureID, sensorID).
		Delete(&models.EnclosureSensor{}).Error
}

// ListSensors returns the sensors linked to the enclosure.
func (r *Repository) ListSensors(ctx context.Context, enclosureID uuid.UUID) ([]models.Sensor, error) {
	var rows []models.Sensor
	err := r.db.WithContext(ctx).
		Joins("JOIN enclosure_sensors ON enclosure_sensors.sensor_id = sensors.id").
		Where("enclosure_sensors.enclosure_id = ?", enclosureID).
		Order("sensors.kind").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
