package memberships

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUserFarms returns the farms a user belongs to along with membership metadata.
// Inactive memberships are excluded.
func (r *Repository) ListUserFarms(ctx context.Context, userID uuid.UUID) ([]MembershipWithFarm, error) {
	var rows []membershipWithFarmRow

	err := r.db.WithContext(ctx).
		Model(&models.FarmMembership{}).
		Select("farm_memberships.*, farms.name AS farm_name, farms.city AS farm_city").
		Joins("JOIN farms ON farms.id = farm_memberships.farm_id").
		Where("farm_memberships.user_id = ?", userID).
		Where("farm_memberships.active IS NULL OR farm_memberships.active = ?", true).
		Order("farms.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// GetMembership retrieves a membership by user and farm regardless of its active flag.
func (r *Repository) GetMembership(ctx context.Context, userID, farmID uuid.UUID) (*models.FarmMembership, error) {
	var membership models.FarmMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND farm_id = ?", userID, farmID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new active membership record.
func (r *Repository) CreateMembership(ctx context.Context, userID, farmID uuid.UUID) (*models.FarmMembership, error) {
	active := true
	membership := &models.FarmMembership{
		UserID: userID,
		FarmID: farmID,
		Active: &active,
	}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// EnsureMembership creates the membership when absent and reactivates it when
// it exists but was deactivated. Returns the membership and whether a row was
// created.
func (r *Repository) EnsureMembership(ctx context.Context, userID, farmID uuid.UUID) (*models.FarmMembership, bool, error) {
	existing, err := r.GetMembership(ctx, userID, farmID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		created, createErr := r.CreateMembership(ctx, userID, farmID)
		if createErr != nil {
			return nil, false, createErr
		}
		return created, true, nil
	}

	if !existing.IsActive() {
		if err := r.SetActive(ctx, existing.ID, true); err != nil {
			return nil, false, err
		}
		active := true
		existing.Active = &active
	}
	return existing, false, nil
}

// SetActive flips the membership's active flag.
func (r *Repository) SetActive(ctx context.Context, membershipID uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.FarmMembership{}).
		Where("id = ?", membershipID).
		UpdateColumn("active", active).Error
}

// HasActiveMembership reports whether the user actively belongs to the farm.
func (r *Repository) HasActiveMembership(ctx context.Context, userID, farmID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FarmMembership{}).
		Where("user_id = ? AND farm_id = ?", userID, farmID).
		Where("active IS NULL OR active = ?", true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFarmUsers returns memberships for the farm along with user metadata.
func (r *Repository) ListFarmUsers(ctx context.Context, farmID uuid.UUID) ([]FarmUserDTO, error) {
	var rows []farmUserRow
	err := r.db.WithContext(ctx).
		Model(&models.FarmMembership{}).
		Select("farm_memberships.*, users.name, users.email, users.role").
		Joins("JOIN users ON users.id = farm_memberships.user_id").
		Where("farm_memberships.farm_id = ?", farmID).
		Order("farm_memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return farmUserRowsToDTO(rows), nil
}
