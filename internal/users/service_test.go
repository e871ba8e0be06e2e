package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type stubUserRepo struct {
	user        *models.User
	byRole      []models.User
	exists      bool
	err         error
	updatedRole *enums.UserRole
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byRole, nil
}

func (s *stubUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	if s.err != nil {
		return s.err
	}
	s.updatedRole = &role
	return nil
}

func (s *stubUserRepo) UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error {
	return s.err
}

func (s *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.exists, nil
}

func baseUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Ana Souza",
		Email: "ana@example.com",
		Role:  enums.UserRoleMembro,
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	user := baseUser()
	svc, err := NewService(&stubUserRepo{user: user})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if dto.ID != user.ID || dto.Email != user.Email {
		t.Fatalf("dto mismatch: %+v", dto)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{err: gorm.ErrRecordNotFound})

	_, err := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestServiceChangeRole(t *testing.T) {
	user := baseUser()
	repo := &stubUserRepo{user: user}
	svc, _ := NewService(repo)

	dto, err := svc.ChangeRole(context.Background(), user.ID, enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if dto.Role != enums.UserRoleAdmin {
		t.Fatalf("expected role admin, got %s", dto.Role)
	}
	if repo.updatedRole == nil || *repo.updatedRole != enums.UserRoleAdmin {
		t.Fatal("expected repo update with admin role")
	}
}

func TestServiceChangeRoleNoopWhenUnchanged(t *testing.T) {
	user := baseUser()
	repo := &stubUserRepo{user: user}
	svc, _ := NewService(repo)

	dto, err := svc.ChangeRole(context.Background(), user.ID, enums.UserRoleMembro)
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if dto.Role != enums.UserRoleMembro {
		t.Fatalf("expected role membro, got %s", dto.Role)
	}
	if repo.updatedRole != nil {
		t.Fatal("expected no repo update for unchanged role")
	}
}

func TestServiceChangeRoleInvalid(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{user: baseUser()})

	_, err := svc.ChangeRole(context.Background(), uuid.New(), "gerente")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceListMasters(t *testing.T) {
	repo := &stubUserRepo{byRole: []models.User{
		{ID: uuid.New(), Name: "Root", Email: "root@example.com", Role: enums.UserRoleMaster},
	}}
	svc, _ := NewService(repo)

	out, err := svc.ListMasters(context.Background())
	if err != nil {
		t.Fatalf("list masters: %v", err)
	}
	if len(out) != 1 || out[0].Role != enums.UserRoleMaster {
		t.Fatalf("unexpected result %+v", out)
	}
}

func TestServiceEmailExists(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{exists: true})

	exists, err := svc.EmailExists(context.Background(), "Ana@Example.com ")
	if err != nil {
		t.Fatalf("email exists: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist")
	}

	if _, err := svc.EmailExists(context.Background(), "not-an-email"); err == nil {
		t.Fatal("expected validation error for malformed email")
	}
}

func TestServiceDependencyErrors(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{err: errors.New("boom")})

	if _, err := svc.ListByRole(context.Background(), enums.UserRoleAdmin); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
