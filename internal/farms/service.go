package farms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/internal/memberships"
	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type farmRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	ListAll(ctx context.Context) ([]models.Farm, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Farm, error)
	Create(ctx context.Context, dto CreateFarmDTO) (*models.Farm, error)
	UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error
}

type membershipsRepository interface {
	ListUserFarms(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithFarm, error)
	ListFarmUsers(ctx context.Context, farmID uuid.UUID) ([]memberships.FarmUserDTO, error)
	HasActiveMembership(ctx context.Context, userID, farmID uuid.UUID) (bool, error)
	EnsureMembership(ctx context.Context, userID, farmID uuid.UUID) (*models.FarmMembership, bool, error)
}

// Service exposes farm operations.
type Service interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*FarmDTO, error)
	ListForUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole) ([]FarmDTO, error)
	Create(ctx context.Context, ownerID uuid.UUID, input CreateFarmDTO) (*FarmDTO, error)
	UpdatePhoto(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, photoURL *string) (*FarmDTO, error)
	ListUsers(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, farmID uuid.UUID) ([]memberships.FarmUserDTO, error)
}

type service struct {
	repo        farmRepository
	memberships membershipsRepository
}

// NewService builds a farm service with the provided repositories.
func NewService(repo farmRepository, membershipsRepo membershipsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("farm repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{repo: repo, memberships: membershipsRepo}, nil
}

func (s *service) authorize(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, farmID uuid.UUID) error {
	if actorRole == enums.UserRoleMaster {
		return nil
	}
	ok, err := s.memberships.HasActiveMembership(ctx, actorID, farmID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farm membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "no access to this farm")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*FarmDTO, error) {
	if err := s.authorize(ctx, actorID, actorRole, id); err != nil {
		return nil, err
	}
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find farm")
	}
	return FromModel(farm), nil
}

func (s *service) ListForUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole) ([]FarmDTO, error) {
	var rows []models.Farm
	var err error

	if actorRole == enums.UserRoleMaster {
		rows, err = s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farms")
		}
	} else {
		mships, mErr := s.memberships.ListUserFarms(ctx, actorID)
		if mErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, mErr, "list user farms")
		}
		ids := make([]uuid.UUID, 0, len(mships))
		for _, m := range mships {
			ids = append(ids, m.FarmID)
		}
		rows, err = s.repo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farms by ids")
		}
	}

	out := make([]FarmDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateFarmDTO) (*FarmDTO, error) {
	if input.Name == "" || input.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm name and city are required")
	}
	farm, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farm")
	}
	if _, _, err := s.memberships.EnsureMembership(ctx, ownerID, farm.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create owner membership")
	}
	return FromModel(farm), nil
}

func (s *service) UpdatePhoto(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, photoURL *string) (*FarmDTO, error) {
	if err := s.authorize(ctx, actorID, actorRole, id); err != nil {
		return nil, err
	}
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find farm")
	}
	if err := s.repo.UpdatePhotoURL(ctx, id, photoURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farm photo")
	}
	farm.PhotoURL = photoURL
	return FromModel(farm), nil
}

func (s *service) ListUsers(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, farmID uuid.UUID) ([]memberships.FarmUserDTO, error) {
	if err := s.authorize(ctx, actorID, actorRole, farmID); err != nil {
		return nil, err
	}
	users, err := s.memberships.ListFarmUsers(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farm users")
	}
	return users, nil
}
