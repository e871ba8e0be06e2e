package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/internal/users"
	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
	"github.com/camarize/camarize-backend/pkg/security"
)

// MasterRegisterRequest contains the credentials for the dev-only
// master registration flow used to bootstrap an environment.
type MasterRegisterRequest struct {
	Name     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// MasterRegisterService handles creating dev master users.
type MasterRegisterService interface {
	Register(ctx context.Context, req MasterRegisterRequest) (*users.UserDTO, error)
}

// MasterRegisterServiceParams names the dependencies for the flow.
type MasterRegisterServiceParams struct {
	Tx              registerTxRunner
	PasswordConfig  config.PasswordConfig
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
}

type masterRegisterService struct {
	tx          registerTxRunner
	passwordCfg config.PasswordConfig
	userRepo    func(tx *gorm.DB) registerUserRepository
}

// NewMasterRegisterService builds a dev master registration service.
func NewMasterRegisterService(params MasterRegisterServiceParams) (MasterRegisterService, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	s := &masterRegisterService{
		tx:          params.Tx,
		passwordCfg: params.PasswordConfig,
		userRepo:    params.UserRepoFactory,
	}
	if s.userRepo == nil {
		s.userRepo = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	return s, nil
}

func (s *masterRegisterService) Register(ctx context.Context, req MasterRegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         enums.UserRoleMaster,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
