package requests

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	"github.com/camarize/camarize-backend/pkg/pagination"
)

// ListFilter narrows the request listing. All filters are optional.
type ListFilter struct {
	Status          *enums.RequestStatus
	TargetRole      *enums.UserRole
	RequesterUserID *uuid.UUID
	Limit           int
	Cursor          *pagination.Cursor
}

// RequestRow is a request joined with its requester, approver, and farm
// display columns.
type RequestRow struct {
	ID              uuid.UUID
	RequesterUserID *uuid.UUID
	RequesterRole   enums.UserRole
	TargetRole      enums.UserRole
	Type            enums.RequestType
	Action          enums.RequestAction
	Payload         json.RawMessage
	FarmID          *uuid.UUID
	Status          enums.RequestStatus
	ApproverUserID  *uuid.UUID
	CreatedAt       time.Time
	RequesterName   *string
	RequesterEmail  *string
	ApproverName    *string
	ApproverEmail   *string
	FarmName        *string
}

// Repository exposes persistence helpers for change requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	List(ctx context.Context, filter ListFilter) ([]RequestRow, *pagination.Cursor, error)
	Resolve(ctx context.Context, id uuid.UUID, status enums.RequestStatus, approverID uuid.UUID, requesterID *uuid.UUID, payload json.RawMessage) (bool, error)
	DeleteByRequester(ctx context.Context, id, requesterID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a request repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) List(ctx context.Context, filter ListFilter) ([]RequestRow, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(filter.Limit)
	normalized := pagination.NormalizeLimit(filter.Limit)

	query := r.db.WithContext(ctx).Table("requests").
		Select(`requests.id, requests.requester_user_id, requests.requester_role, requests.target_role,
			requests.type, requests.action, requests.payload, requests.farm_id, requests.status,
			requests.approver_user_id, requests.created_at,
			ru.name AS requester_name, ru.email AS requester_email,
			au.name AS approver_name, au.email AS approver_email,
			f.name AS farm_name`).
		Joins("LEFT JOIN users ru ON ru.id = requests.requester_user_id").
		Joins("LEFT JOIN users au ON au.id = requests.approver_user_id").
		Joins("LEFT JOIN farms f ON f.id = requests.farm_id")

	if filter.Status != nil {
		query = query.Where("requests.status = ?", *filter.Status)
	}
	if filter.TargetRole != nil {
		query = query.Where("requests.target_role = ?", *filter.TargetRole)
	}
	if filter.RequesterUserID != nil {
		query = query.Where("requests.requester_user_id = ?", *filter.RequesterUserID)
	}
	if filter.Cursor != nil {
		query = query.Where("(requests.created_at, requests.id) < (?, ?)", filter.Cursor.CreatedAt, filter.Cursor.ID)
	}

	var rows []RequestRow
	if err := query.Order("requests.created_at DESC, requests.id DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// Resolve flips a pending request to its terminal status. The status
// predicate keeps the transition atomic under concurrent resolutions:
// the loser matches zero rows and the terminal status stands.
func (r *repositoryImpl) Resolve(ctx context.Context, id uuid.UUID, status enums.RequestStatus, approverID uuid.UUID, requesterID *uuid.UUID, payload json.RawMessage) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Request{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":            status,
			"approver_user_id":  approverID,
			"requester_user_id": requesterID,
			"payload":           payload,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) DeleteByRequester(ctx context.Context, id, requesterID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND requester_user_id = ?", id, requesterID).
		Delete(&models.Request{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
