package farms

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/internal/memberships"
	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type stubFarmRepo struct {
	farm    *models.Farm
	all     []models.Farm
	byIDs   []models.Farm
	err     error
	created *models.Farm
}

func (s *stubFarmRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.farm, nil
}

func (s *stubFarmRepo) ListAll(ctx context.Context) ([]models.Farm, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.all, nil
}

func (s *stubFarmRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Farm, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byIDs, nil
}

func (s *stubFarmRepo) Create(ctx context.Context, dto CreateFarmDTO) (*models.Farm, error) {
	if s.err != nil {
		return nil, s.err
	}
	farm := dto.ToModel()
	farm.ID = uuid.New()
	s.created = farm
	return farm, nil
}

func (s *stubFarmRepo) UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error {
	return s.err
}

type stubMembershipsRepo struct {
	farmsOfUser []memberships.MembershipWithFarm
	usersOfFarm []memberships.FarmUserDTO
	hasActive   bool
	ensured     []uuid.UUID
	err         error
}

func (s *stubMembershipsRepo) ListUserFarms(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithFarm, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.farmsOfUser, nil
}

func (s *stubMembershipsRepo) ListFarmUsers(ctx context.Context, farmID uuid.UUID) ([]memberships.FarmUserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.usersOfFarm, nil
}

func (s *stubMembershipsRepo) HasActiveMembership(ctx context.Context, userID, farmID uuid.UUID) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.hasActive, nil
}

func (s *stubMembershipsRepo) EnsureMembership(ctx context.Context, userID, farmID uuid.UUID) (*models.FarmMembership, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	s.ensured = append(s.ensured, farmID)
	return &models.FarmMembership{ID: uuid.New(), UserID: userID, FarmID: farmID}, true, nil
}

func baseFarm() *models.Farm {
	return &models.Farm{
		ID:       uuid.New(),
		Name:     "Sítio Azul",
		Street:   "Estrada do Mar",
		District: "Litoral",
		City:     "Natal",
	}
}

func TestNewServiceRequiresRepos(t *testing.T) {
	if _, err := NewService(nil, &stubMembershipsRepo{}); err == nil {
		t.Fatal("expected error without farm repo")
	}
	if _, err := NewService(&stubFarmRepo{}, nil); err == nil {
		t.Fatal("expected error without memberships repo")
	}
}

func TestGetByIDMemberAllowed(t *testing.T) {
	farm := baseFarm()
	svc, _ := NewService(&stubFarmRepo{farm: farm}, &stubMembershipsRepo{hasActive: true})

	dto, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMembro, farm.ID)
	if err != nil {
		t.Fatalf("get farm: %v", err)
	}
	if dto.Name != "Sítio Azul" {
		t.Fatalf("unexpected farm %+v", dto)
	}
}

func TestGetByIDForbiddenWithoutMembership(t *testing.T) {
	svc, _ := NewService(&stubFarmRepo{farm: baseFarm()}, &stubMembershipsRepo{hasActive: false})

	_, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleAdmin, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetByIDMasterBypassesMembership(t *testing.T) {
	farm := baseFarm()
	svc, _ := NewService(&stubFarmRepo{farm: farm}, &stubMembershipsRepo{hasActive: false})

	if _, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMaster, farm.ID); err != nil {
		t.Fatalf("master should bypass membership check: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubFarmRepo{err: gorm.ErrRecordNotFound}, &stubMembershipsRepo{hasActive: true})

	_, err := svc.GetByID(context.Background(), uuid.New(), enums.UserRoleMembro, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListForUserScopesByRole(t *testing.T) {
	farm := baseFarm()
	repo := &stubFarmRepo{
		all:   []models.Farm{*farm, {ID: uuid.New(), Name: "Outra", City: "Recife"}},
		byIDs: []models.Farm{*farm},
	}
	mships := &stubMembershipsRepo{
		farmsOfUser: []memberships.MembershipWithFarm{{FarmID: farm.ID, FarmName: farm.Name, Active: true}},
	}
	svc, _ := NewService(repo, mships)

	asMaster, err := svc.ListForUser(context.Background(), uuid.New(), enums.UserRoleMaster)
	if err != nil {
		t.Fatalf("list as master: %v", err)
	}
	if len(asMaster) != 2 {
		t.Fatalf("expected master to see all farms, got %d", len(asMaster))
	}

	asMember, err := svc.ListForUser(context.Background(), uuid.New(), enums.UserRoleMembro)
	if err != nil {
		t.Fatalf("list as member: %v", err)
	}
	if len(asMember) != 1 || asMember[0].ID != farm.ID {
		t.Fatalf("expected member to see only joined farms, got %+v", asMember)
	}
}

func TestCreateFarmAddsOwnerMembership(t *testing.T) {
	repo := &stubFarmRepo{}
	mships := &stubMembershipsRepo{}
	svc, _ := NewService(repo, mships)
	owner := uuid.New()

	dto, err := svc.Create(context.Background(), owner, CreateFarmDTO{
		Name:     "Sítio Azul",
		Street:   "Estrada do Mar",
		District: "Litoral",
		City:     "Natal",
	})
	if err != nil {
		t.Fatalf("create farm: %v", err)
	}
	if len(mships.ensured) != 1 || mships.ensured[0] != dto.ID {
		t.Fatal("expected owner membership for the new farm")
	}
}

func TestCreateFarmValidates(t *testing.T) {
	svc, _ := NewService(&stubFarmRepo{}, &stubMembershipsRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateFarmDTO{Name: ""})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListUsersDependencyError(t *testing.T) {
	svc, _ := NewService(&stubFarmRepo{}, &stubMembershipsRepo{hasActive: true, err: errors.New("boom")})

	_, err := svc.ListUsers(context.Background(), uuid.New(), enums.UserRoleMaster, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
