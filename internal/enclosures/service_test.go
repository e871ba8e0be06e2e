package enclosures

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type stubEnclosureRepo struct {
	enclosure  *models.Enclosure
	cond       *models.IdealCondition
	farmID     *uuid.UUID
	byFarm     []models.Enclosure
	sensors    []models.Sensor
	shrimpType *models.ShrimpType
	diet       *models.Diet
	err        error

	createdCond *models.IdealCondition
	savedCond   *models.IdealCondition
	deleted     []uuid.UUID
}

func (s *stubEnclosureRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Enclosure, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.enclosure, nil
}

func (s *stubEnclosureRepo) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Enclosure, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byFarm, nil
}

func (s *stubEnclosureRepo) FarmOf(ctx context.Context, enclosureID uuid.UUID) (*uuid.UUID, error) {
	return s.farmID, nil
}

func (s *stubEnclosureRepo) Create(ctx context.Context, enclosure *models.Enclosure, cond *models.IdealCondition, farmID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	enclosure.ID = uuid.New()
	if cond != nil {
		cond.ID = uuid.New()
		enclosure.IdealConditionID = &cond.ID
		s.createdCond = cond
	}
	return nil
}

func (s *stubEnclosureRepo) Update(ctx context.Context, enclosure *models.Enclosure) error {
	return s.err
}

func (s *stubEnclosureRepo) IdealConditionByID(ctx context.Context, id uuid.UUID) (*models.IdealCondition, error) {
	if s.cond == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cond, nil
}

func (s *stubEnclosureRepo) ShrimpTypeByID(ctx context.Context, id uuid.UUID) (*models.ShrimpType, error) {
	if s.shrimpType == nil || s.shrimpType.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.shrimpType, nil
}

func (s *stubEnclosureRepo) DietByID(ctx context.Context, id uuid.UUID) (*models.Diet, error) {
	if s.diet == nil || s.diet.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.diet, nil
}

func (s *stubEnclosureRepo) SaveIdealCondition(ctx context.Context, cond *models.IdealCondition) error {
	if cond.ID == uuid.Nil {
		cond.ID = uuid.New()
	}
	s.savedCond = cond
	return nil
}

func (s *stubEnclosureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubEnclosureRepo) ListSensors(ctx context.Context, enclosureID uuid.UUID) ([]models.Sensor, error) {
	return s.sensors, nil
}

type stubMemberships struct {
	hasActive bool
	err       error
}

func (s *stubMemberships) HasActiveMembership(ctx context.Context, userID, farmID uuid.UUID) (bool, error) {
	return s.hasActive, s.err
}

func TestCreateRequiresNameAndFarm(t *testing.T) {
	svc, _ := NewService(&stubEnclosureRepo{}, &stubMemberships{hasActive: true})

	_, err := svc.Create(context.Background(), uuid.New(), enums.UserRoleAdmin, CreateEnclosureDTO{Name: ""})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), enums.UserRoleAdmin, CreateEnclosureDTO{Name: "Tanque 1"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing farm, got %v", err)
	}
}

func TestCreateBuildsIdealCondition(t *testing.T) {
	repo := &stubEnclosureRepo{}
	svc, _ := NewService(repo, &stubMemberships{hasActive: true})
	temp := 28.5

	dto, err := svc.Create(context.Background(), uuid.New(), enums.UserRoleAdmin, CreateEnclosureDTO{
		Name:      "Tanque 1",
		FarmID:    uuid.New(),
		TempIdeal: &temp,
	})
	if err != nil {
		t.Fatalf("create enclosure: %v", err)
	}
	if repo.createdCond == nil || repo.createdCond.TempIdeal == nil || *repo.createdCond.TempIdeal != temp {
		t.Fatal("expected ideal condition row with target temperature")
	}
	if dto.TempIdeal == nil || *dto.TempIdeal != temp {
		t.Fatalf("expected hydrated temp, got %+v", dto)
	}
}

func TestCreateForbiddenWithoutMembership(t *testing.T) {
	svc, _ := NewService(&stubEnclosureRepo{}, &stubMemberships{hasActive: false})

	_, err := svc.Create(context.Background(), uuid.New(), enums.UserRoleMembro, CreateEnclosureDTO{
		Name:   "Tanque 1",
		FarmID: uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubEnclosureRepo{err: gorm.ErrRecordNotFound}, &stubMemberships{hasActive: true})

	_, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleAdmin, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByIDIncludesSensors(t *testing.T) {
	farmID := uuid.New()
	repo := &stubEnclosureRepo{
		enclosure: &models.Enclosure{ID: uuid.New(), Name: "Tanque 1"},
		farmID:    &farmID,
		sensors: []models.Sensor{
			{ID: uuid.New(), Kind: enums.SensorKindPH},
			{ID: uuid.New(), Kind: enums.SensorKindTemperature},
		},
	}
	svc, _ := NewService(repo, &stubMemberships{hasActive: true})

	dto, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMembro, repo.enclosure.ID)
	if err != nil {
		t.Fatalf("get enclosure: %v", err)
	}
	if len(dto.Sensors) != 2 {
		t.Fatalf("expected 2 sensors, got %d", len(dto.Sensors))
	}
	if dto.FarmID == nil || *dto.FarmID != farmID {
		t.Fatal("expected farm id on dto")
	}
}

func TestGetByIDPopulatesShrimpTypeAndDiet(t *testing.T) {
	farmID := uuid.New()
	description := "ração balanceada"
	shrimpType := &models.ShrimpType{ID: uuid.New(), Name: "Vannamei"}
	diet := &models.Diet{ID: uuid.New(), Description: &description, Quantity: 2.5}
	repo := &stubEnclosureRepo{
		enclosure: &models.Enclosure{
			ID:           uuid.New(),
			Name:         "Tanque 1",
			ShrimpTypeID: &shrimpType.ID,
			DietID:       &diet.ID,
		},
		farmID:     &farmID,
		shrimpType: shrimpType,
		diet:       diet,
	}
	svc, _ := NewService(repo, &stubMemberships{hasActive: true})

	dto, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMembro, repo.enclosure.ID)
	if err != nil {
		t.Fatalf("get enclosure: %v", err)
	}
	if dto.ShrimpType == nil || dto.ShrimpType.Name != "Vannamei" {
		t.Fatalf("shrimp type not populated: %+v", dto.ShrimpType)
	}
	if dto.Diet == nil || dto.Diet.Description == nil || *dto.Diet.Description != description {
		t.Fatalf("diet not populated: %+v", dto.Diet)
	}
}

func TestGetByIDOmitsDanglingReferences(t *testing.T) {
	farmID := uuid.New()
	missing := uuid.New()
	repo := &stubEnclosureRepo{
		enclosure: &models.Enclosure{ID: uuid.New(), Name: "Tanque 2", ShrimpTypeID: &missing},
		farmID:    &farmID,
	}
	svc, _ := NewService(repo, &stubMemberships{hasActive: true})

	dto, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMembro, repo.enclosure.ID)
	if err != nil {
		t.Fatalf("get enclosure: %v", err)
	}
	if dto.ShrimpType != nil || dto.Diet != nil {
		t.Fatalf("dangling references must be omitted: %+v", dto)
	}
}

func TestUpdatePatchesConditions(t *testing.T) {
	condID := uuid.New()
	farmID := uuid.New()
	repo := &stubEnclosureRepo{
		enclosure: &models.Enclosure{ID: uuid.New(), Name: "Tanque 1", IdealConditionID: &condID},
		cond:      &models.IdealCondition{ID: condID},
		farmID:    &farmID,
	}
	svc, _ := NewService(repo, &stubMemberships{hasActive: true})
	ph := 7.8
	name := "Tanque Norte"

	dto, err := svc.Update(context.Background(), uuid.New(), enums.UserRoleAdmin, repo.enclosure.ID, UpdateEnclosureDTO{
		Name:    &name,
		PHIdeal: &ph,
	})
	if err != nil {
		t.Fatalf("update enclosure: %v", err)
	}
	if dto.Name != "Tanque Norte" {
		t.Fatalf("expected renamed enclosure, got %q", dto.Name)
	}
	if repo.savedCond == nil || repo.savedCond.PHIdeal == nil || *repo.savedCond.PHIdeal != ph {
		t.Fatal("expected ideal condition patch to be saved")
	}
}

func TestDeleteAuthorized(t *testing.T) {
	farmID := uuid.New()
	repo := &stubEnclosureRepo{
		enclosure: &models.Enclosure{ID: uuid.New(), Name: "Tanque 1"},
		farmID:    &farmID,
	}
	svc, _ := NewService(repo, &stubMemberships{hasActive: true})

	if err := svc.Delete(context.Background(), uuid.New(), enums.UserRoleAdmin, repo.enclosure.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("expected repo delete call")
	}
}
