package sensors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type stubSensorRepo struct {
	sensor  *models.Sensor
	list    []models.Sensor
	err     error
	deleted []uuid.UUID
}

func (s *stubSensorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Sensor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sensor, nil
}

func (s *stubSensorRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Sensor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubSensorRepo) Create(ctx context.Context, sensor *models.Sensor) (*models.Sensor, error) {
	if s.err != nil {
		return nil, s.err
	}
	sensor.ID = uuid.New()
	return sensor, nil
}

func (s *stubSensorRepo) UpdateNickname(ctx context.Context, id uuid.UUID, nickname *string) error {
	return s.err
}

func (s *stubSensorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func ownedSensor(owner uuid.UUID) *models.Sensor {
	return &models.Sensor{
		ID:     uuid.New(),
		Kind:   enums.SensorKindPH,
		UserID: &owner,
	}
}

func TestCreateParsesFreeTextKind(t *testing.T) {
	svc, _ := NewService(&stubSensorRepo{})

	dto, err := svc.Create(context.Background(), CreateSensorDTO{Kind: "  Temperatura "})
	if err != nil {
		t.Fatalf("create sensor: %v", err)
	}
	if dto.Kind != enums.SensorKindTemperature {
		t.Fatalf("expected normalized kind, got %s", dto.Kind)
	}
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	svc, _ := NewService(&stubSensorRepo{})

	_, err := svc.Create(context.Background(), CreateSensorDTO{Kind: "salinidade"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDHidesForeignSensors(t *testing.T) {
	owner := uuid.New()
	svc, _ := NewService(&stubSensorRepo{sensor: ownedSensor(owner)})

	if _, err := svc.GetByID(context.Background(), owner, enums.UserRoleMembro, uuid.New()); err != nil {
		t.Fatalf("owner read: %v", err)
	}

	_, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMembro, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign sensor, got %v", err)
	}
}

func TestGetByIDMasterSeesAll(t *testing.T) {
	svc, _ := NewService(&stubSensorRepo{sensor: ownedSensor(uuid.New())})

	if _, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMaster, uuid.New()); err != nil {
		t.Fatalf("master read: %v", err)
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	owner := uuid.New()
	repo := &stubSensorRepo{sensor: ownedSensor(owner)}
	svc, _ := NewService(repo)

	if err := svc.Delete(context.Background(), owner, enums.UserRoleMembro, repo.sensor.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("expected repo delete call")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubSensorRepo{err: gorm.ErrRecordNotFound})

	_, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMembro, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
