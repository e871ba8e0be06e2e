package enclosures

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/internal/sensors"
	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type enclosureRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Enclosure, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Enclosure, error)
	FarmOf(ctx context.Context, enclosureID uuid.UUID) (*uuid.UUID, error)
	Create(ctx context.Context, enclosure *models.Enclosure, cond *models.IdealCondition, farmID uuid.UUID) error
	Update(ctx context.Context, enclosure *models.Enclosure) error
	IdealConditionByID(ctx context.Context, id uuid.UUID) (*models.IdealCondition, error)
	ShrimpTypeByID(ctx context.Context, id uuid.UUID) (*models.ShrimpType, error)
	DietByID(ctx context.Context, id uuid.UUID) (*models.Diet, error)
	SaveIdealCondition(ctx context.Context, cond *models.IdealCondition) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListSensors(ctx context.Context, enclosureID uuid.UUID) ([]models.Sensor, error)
}

type membershipChecker interface {
	HasActiveMembership(ctx context.Context, userID, farmID uuid.UUID) (bool, error)
}

// Service exposes enclosure operations.
type Service interface {
	ListByFarm(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, farmID uuid.UUID) ([]EnclosureDTO, error)
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*EnclosureWithSensorsDTO, error)
	Create(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, input CreateEnclosureDTO) (*EnclosureDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, patch UpdateEnclosureDTO) (*EnclosureDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) error
}

type service struct {
	repo        enclosureRepository
	memberships membershipChecker
}

// NewService builds an enclosure service with the provided repositories.
func NewService(repo enclosureRepository, membershipsRepo membershipChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("enclosure repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{repo: repo, memberships: membershipsRepo}, nil
}

func (s *service) authorizeFarm(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, farmID uuid.UUID) error {
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

func (s *service) ListByFarm(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, farmID uuid.UUID) ([]EnclosureDTO, error) {
	if err := s.authorizeFarm(ctx, actorID, actorRole, farmID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enclosures")
	}
	out := make([]EnclosureDTO, 0, len(rows))
	for i := range rows {
		dto, err := s.hydrate(ctx, &rows[i], &farmID)
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return out, nil
}

func (s *service) hydrate(ctx context.Context, m *models.Enclosure, farmID *uuid.UUID) (*EnclosureDTO, error) {
	var cond *models.IdealCondition
	if m.IdealConditionID != nil {
		loaded, err := s.repo.IdealConditionByID(ctx, *m.IdealConditionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ideal condition")
		}
		cond = loaded
	}
	return FromModel(m, cond, farmID), nil
}

func (s *service) loadAuthorized(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*models.Enclosure, *uuid.UUID, error) {
	enclosure, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "enclosure not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find enclosure")
	}
	farmID, err := s.repo.FarmOf(ctx, id)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve enclosure farm")
	}
	if farmID != nil {
		if err := s.authorizeFarm(ctx, actorID, actorRole, *farmID); err != nil {
			return nil, nil, err
		}
	}
	return enclosure, farmID, nil
}

func (s *service) GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*EnclosureWithSensorsDTO, error) {
	enclosure, farmID, err := s.loadAuthorized(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	dto, err := s.hydrate(ctx, enclosure, farmID)
	if err != nil {
		return nil, err
	}
	linked, err := s.repo.ListSensors(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enclosure sensors")
	}
	out := &EnclosureWithSensorsDTO{EnclosureDTO: *dto, Sensors: make([]sensors.SensorDTO, 0, len(linked))}
	for i := range linked {
		out.Sensors = append(out.Sensors, *sensors.FromModel(&linked[i]))
	}

	// References removed after the enclosure was created come back as
	// dangling ids; the detail view just omits them.
	if enclosure.ShrimpTypeID != nil {
		shrimpType, err := s.repo.ShrimpTypeByID(ctx, *enclosure.ShrimpTypeID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shrimp type")
		}
		if shrimpType != nil {
			out.ShrimpType = &ShrimpTypeDTO{ID: shrimpType.ID, Name: shrimpType.Name}
		}
	}
	if enclosure.DietID != nil {
		diet, err := s.repo.DietByID(ctx, *enclosure.DietID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load diet")
		}
		if diet != nil {
			out.Diet = &DietDTO{
				ID:          diet.ID,
				Description: diet.Description,
				MealTimes:   []string(diet.MealTimes),
				MealsPerDay: diet.MealsPerDay,
				Quantity:    diet.Quantity,
			}
		}
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, input CreateEnclosureDTO) (*EnclosureDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "enclosure name is required")
	}
	if input.FarmID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm id is required")
	}
	if err := s.authorizeFarm(ctx, actorID, actorRole, input.FarmID); err != nil {
		return nil, err
	}

	enclosure := &models.Enclosure{
		Name:         input.Name,
		ShrimpTypeID: input.ShrimpTypeID,
		DietID:       input.DietID,
		PhotoURL:     input.PhotoURL,
		InstalledAt:  input.InstalledAt,
	}
	var cond *models.IdealCondition
	if input.TempIdeal != nil || input.PHIdeal != nil || input.AmmoniaIdeal != nil {
		cond = &models.IdealCondition{
			ShrimpTypeID: input.ShrimpTypeID,
			TempIdeal:    input.TempIdeal,
			PHIdeal:      input.PHIdeal,
			AmmoniaIdeal: input.AmmoniaIdeal,
		}
	}
	if err := s.repo.Create(ctx, enclosure, cond, input.FarmID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create enclosure")
	}
	farmID := input.FarmID
	return FromModel(enclosure, cond, &farmID), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, patch UpdateEnclosureDTO) (*EnclosureDTO, error) {
	enclosure, farmID, err := s.loadAuthorized(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		enclosure.Name = *patch.Name
	}
	if patch.ShrimpTypeID != nil {
		enclosure.ShrimpTypeID = patch.ShrimpTypeID
	}
	if patch.DietID != nil {
		enclosure.DietID = patch.DietID
	}
	if patch.PhotoURL != nil {
		enclosure.PhotoURL = patch.PhotoURL
	}
	if patch.InstalledAt != nil {
		enclosure.InstalledAt = patch.InstalledAt
	}
	if err := s.repo.Update(ctx, enclosure); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update enclosure")
	}

	var cond *models.IdealCondition
	if patch.TempIdeal != nil || patch.PHIdeal != nil || patch.AmmoniaIdeal != nil {
		if enclosure.IdealConditionID != nil {
			cond, err = s.repo.IdealConditionByID(ctx, *enclosure.IdealConditionID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ideal condition")
			}
		}
		if cond == nil {
			cond = &models.IdealCondition{ShrimpTypeID: enclosure.ShrimpTypeID}
		}
		if patch.TempIdeal != nil {
			cond.TempIdeal = patch.TempIdeal
		}
		if patch.PHIdeal != nil {
			cond.PHIdeal = patch.PHIdeal
		}
		if patch.AmmoniaIdeal != nil {
			cond.AmmoniaIdeal = patch.AmmoniaIdeal
		}
		if err := s.repo.SaveIdealCondition(ctx, cond); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save ideal condition")
		}
		if enclosure.IdealConditionID == nil {
			enclosure.IdealConditionID = &cond.ID
			if err := s.repo.Update(ctx, enclosure); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bind ideal condition")
			}
		}
	}

	return s.hydrate(ctx, enclosure, farmID)
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) error {
	if _, _, err := s.loadAuthorized(ctx, actorID, actorRole, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete enclosure")
	}
	return nil
}
