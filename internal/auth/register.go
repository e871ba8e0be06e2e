package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/internal/requests"
	"github.com/camarize/camarize-backend/internal/users"
	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
	"github.com/camarize/camarize-backend/pkg/security"
)

// RegisterRequest contains the payload for member self-registration.
type RegisterRequest struct {
	Name     string  `json:"nome" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"senha" validate:"required"`
	PhotoURL *string `json:"foto_perfil,omitempty"`
}

// RegisterOwnerFarm carries the farm block of an owner registration.
type RegisterOwnerFarm struct {
	Name     string  `json:"nome" validate:"required"`
	Street   string  `json:"rua"`
	District string  `json:"bairro"`
	City     string  `json:"cidade" validate:"required"`
	Number   *string `json:"numero,omitempty"`
}

// RegisterOwnerRequest contains the payload for owner registration. No
// account is created up front; approval of the resulting request
// creates the user, the farm, and the membership.
type RegisterOwnerRequest struct {
	Name     string            `json:"nome" validate:"required"`
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"senha" validate:"required"`
	PhotoURL *string           `json:"foto_perfil,omitempty"`
	Farm     RegisterOwnerFarm `json:"fazenda" validate:"required"`
}

// RegisterService handles member self-registration and the owner
// registration request flow.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*requests.RequestDTO, error)
}

type registerTxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration
// flows. UserRepoFactory defaults to the real repository bound to the
// transaction; tests inject a stub.
type RegisterServiceParams struct {
	Tx              registerTxRunner
	Requests        requests.Service
	PasswordConfig  config.PasswordConfig
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
}

type registerService struct {
	tx          registerTxRunner
	requests    requests.Service
	passwordCfg config.PasswordConfig
	userRepo    func(tx *gorm.DB) registerUserRepository
}

// NewRegisterService builds a registration service with the provided
// dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Requests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "requests service required")
	}
	s := &registerService{
		tx:          params.Tx,
		requests:    params.Requests,
		passwordCfg: params.PasswordConfig,
		userRepo:    params.UserRepoFactory,
	}
	if s.userRepo == nil {
		s.userRepo = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	return s, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
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
			Role:         enums.UserRoleMembro,
			PhotoURL:     req.PhotoURL,
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

// RegisterOwner files a cadastrar_proprietario request for a master to
// approve. The account must not already exist.
func (s *registerService) RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*requests.RequestDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	var conflict error
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.userRepo(tx).FindByEmail(ctx, email); err == nil {
			conflict = pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, conflict
	}

	payload, err := json.Marshal(requests.RegisterOwnerPayload{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
		Farm: &requests.OwnerFarmPayload{
			Name:     req.Farm.Name,
			Street:   req.Farm.Street,
			District: req.Farm.District,
			City:     req.Farm.City,
			Number:   req.Farm.Number,
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode owner payload")
	}

	return s.requests.Create(ctx, requests.CreateRequestDTO{
		Action:  string(enums.RequestActionRegisterOwner),
		Payload: payload,
	})
}
