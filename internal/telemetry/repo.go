package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
)

// Repository exposes reading persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one reading.
func (r *Repository) Insert(ctx context.Context, reading *models.Reading) error {
	return r.db.WithContext(ctx).Create(reading).Error
}

// Latest returns the newest reading for the enclosure.
func (r *Repository) Latest(ctx context.Context, enclosureID uuid.UUID) (*models.Reading, error) {
	var reading models.Reading
	err := r.db.WithContext(ctx).
		Where("enclosure_id = ?", enclosureID).
		Order("recorded_at DESC").
		First(&reading).Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// History returns readings since the cutoff, newest first, capped at limit.
func (r *Repository) History(ctx context.Context, enclosureID uuid.UUID, since time.Time, limit int) ([]models.Reading, error) {
	var rows []models.Reading
	err := r.db.WithContext(ctx).
		Where("enclosure_id = ? AND recorded_at >= ?", enclosureID, since).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type dailyAverageRow struct {
	Day         time.Time
	Temperature *float64
	PH          *float64
	Ammonia     *float64
}

// DailyAverages groups readings since the cutoff into per-day averages.
func (r *Repository) DailyAverages(ctx context.Context, enclosureID uuid.UUID, since time.Time) ([]DailyAverageDTO, error) {
	var rows []dailyAverageRow
	err := r.db.WithContext(ctx).
		Model(&models.Reading{}).
		Select("date_trunc('day', recorded_at) AS day, AVG(temperature) AS temperature, AVG(ph) AS ph, AVG(ammonia) AS ammonia").
		Where("enclosure_id = ? AND recorded_at >= ?", enclosureID, since).
		Group("date_trunc('day', recorded_at)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]DailyAverageDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, DailyAverageDTO{
			Day:         row.Day,
			Temperature: row.Temperature,
			PH:          row.PH,
			Ammonia:     row.Ammonia,
		})
	}
	return out, nil
}
