package sensors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type sensorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sensor, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Sensor, error)
	Create(ctx context.Context, sensor *models.Sensor) (*models.Sensor, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes sensor operations scoped to the owning user.
type Service interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*SensorDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]SensorDTO, error)
	Create(ctx context.Context, input CreateSensorDTO) (*SensorDTO, error)
	UpdateNickname(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, nickname *string) (*SensorDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) error
}

type service struct {
	repo sensorRepository
}

// NewService builds a sensor service with the provided repository.
func NewService(repo sensorRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sensor repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) load(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*models.Sensor, error) {
	sensor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sensor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find sensor")
	}
	if actorRole != enums.UserRoleMaster && (sensor.UserID == nil || *sensor.UserID != actorID) {
		// ownership is not revealed to other users
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sensor not found")
	}
	return sensor, nil
}

func (s *service) GetByID(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*SensorDTO, error) {
	sensor, err := s.load(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	return FromModel(sensor), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]SensorDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sensors")
	}
	out := make([]SensorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateSensorDTO) (*SensorDTO, error) {
	kind, err := enums.ParseSensorKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sensor kind").
			WithDetails(map[string]string{"tipo": input.Kind})
	}
	sensor, err := s.repo.Create(ctx, &models.Sensor{
		Kind:     kind,
		Nickname: input.Nickname,
		UserID:   input.UserID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sensor")
	}
	return FromModel(sensor), nil
}

func (s *service) UpdateNickname(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID, nickname *string) (*SensorDTO, error) {
	sensor, err := s.load(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNickname(ctx, id, nickname); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sensor nickname")
	}
	sensor.Nickname = nickname
	return FromModel(sensor), nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) error {
	if _, err := s.load(ctx, actorID, actorRole, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete sensor")
	}
	return nil
}
