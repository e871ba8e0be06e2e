package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/internal/requests"
	"github.com/camarize/camarize-backend/internal/users"
	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterUserRepo struct {
	data    map[string]*models.User
	created *models.User
}

func newStubRegisterUserRepo() *stubRegisterUserRepo {
	return &stubRegisterUserRepo{data: map[string]*models.User{}}
}

func (s *stubRegisterUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.data[user.Email] = user
	s.created = user
	return user, nil
}

type stubRequestsService struct {
	created *requests.CreateRequestDTO
}

func (s *stubRequestsService) Create(ctx context.Context, input requests.CreateRequestDTO) (*requests.RequestDTO, error) {
	s.created = &input
	return &requests.RequestDTO{
		ID:      uuid.New(),
		Action:  enums.RequestActionRegisterOwner,
		Status:  enums.RequestStatusPending,
		Payload: input.Payload,
	}, nil
}

func (s *stubRequestsService) List(ctx context.Context, filter requests.ListFilter) (*requests.RequestPage, error) {
	return &requests.RequestPage{}, nil
}

func (s *stubRequestsService) Approve(ctx context.Context, id, approverID uuid.UUID, farmID *uuid.UUID) (*requests.RequestDTO, error) {
	return nil, nil
}

func (s *stubRequestsService) Reject(ctx context.Context, id, approverID uuid.UUID) (*requests.RequestDTO, error) {
	return nil, nil
}

func (s *stubRequestsService) DeleteByRequester(ctx context.Context, id, requesterID uuid.UUID) error {
	return nil
}

type registerTestSetup struct {
	service  RegisterService
	userRepo *stubRegisterUserRepo
	requests *stubRequestsService
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	userRepo := newStubRegisterUserRepo()
	requestsSvc := &stubRequestsService{}
	svc, err := NewRegisterService(RegisterServiceParams{
		Tx:             stubTxRunner{},
		Requests:       requestsSvc,
		PasswordConfig: config.PasswordConfig{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{service: svc, userRepo: userRepo, requests: requestsSvc}
}

func TestRegisterCreatesMemberUser(t *testing.T) {
	setup := newRegisterTestSetup(t)

	dto, err := setup.service.Register(context.Background(), RegisterRequest{
		Name:     "João",
		Email:    " Joao@X.com ",
		Password: "segredo-12",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if setup.userRepo.created == nil {
		t.Fatalf("expected user to be created")
	}
	if setup.userRepo.created.Email != "joao@x.com" {
		t.Fatalf("email not normalized: %s", setup.userRepo.created.Email)
	}
	if dto.Role != enums.UserRoleMembro {
		t.Fatalf("self-registration must create a member, got %s", dto.Role)
	}
	if setup.userRepo.created.PasswordHash == "segredo-12" {
		t.Fatalf("password must be hashed")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.data["joao@x.com"] = &models.User{ID: uuid.New(), Email: "joao@x.com"}

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		Name:     "João",
		Email:    "joao@x.com",
		Password: "segredo-12",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterOwnerFilesRequestInsteadOfAccount(t *testing.T) {
	setup := newRegisterTestSetup(t)

	number := "10"
	dto, err := setup.service.RegisterOwner(context.Background(), RegisterOwnerRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "secret1",
		Farm: RegisterOwnerFarm{
			Name:   "Sítio Azul",
			Street: "R1",
			City:   "C1",
			Number: &number,
		},
	})
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	if setup.userRepo.created != nil {
		t.Fatalf("owner registration must not create a user up front")
	}
	if dto.Status != enums.RequestStatusPending {
		t.Fatalf("expected pending request, got %s", dto.Status)
	}
	if setup.requests.created == nil || setup.requests.created.Action != string(enums.RequestActionRegisterOwner) {
		t.Fatalf("expected cadastrar_proprietario request, got %+v", setup.requests.created)
	}

	var payload requests.RegisterOwnerPayload
	if err := json.Unmarshal(setup.requests.created.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Farm == nil || payload.Farm.Name != "Sítio Azul" {
		t.Fatalf("farm block missing from payload: %+v", payload)
	}
}

func TestRegisterOwnerRejectsExistingEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.data["ana@x.com"] = &models.User{ID: uuid.New(), Email: "ana@x.com"}

	_, err := setup.service.RegisterOwner(context.Background(), RegisterOwnerRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "secret1",
		Farm:     RegisterOwnerFarm{Name: "Sítio Azul", City: "C1"},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
