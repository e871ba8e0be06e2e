package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
	UpdatePhotoURL(ctx context.Context, id uuid.UUID, photoURL *string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Service exposes user management operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]UserDTO, error)
	ListMasters(ctx context.Context) ([]UserDTO, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*UserDTO, error)
	UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL *string) (*UserDTO, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type service struct {
	repo userRepository
}

// NewService builds a users service with the provided repository.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	return FromModel(user), nil
}

func (s *service) ListByRole(ctx context.Context, role enums.UserRole) ([]UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
	}
	rows, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users by role")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListMasters(ctx context.Context) ([]UserDTO, error) {
	return s.ListByRole(ctx, enums.UserRoleMaster)
}

func (s *service) ChangeRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if user.Role == role {
		return FromModel(user), nil
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user role")
	}
	user.Role = role
	return FromModel(user), nil
}

func (s *service) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL *string) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if err := s.repo.UpdatePhotoURL(ctx, id, photoURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user photo")
	}
	user.PhotoURL = photoURL
	return FromModel(user), nil
}

func (s *service) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	return exists, nil
}
