package requests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/internal/enclosures"
	"github.com/camarize/camarize-backend/internal/farms"
	"github.com/camarize/camarize-backend/internal/memberships"
	"github.com/camarize/camarize-backend/internal/sensors"
	"github.com/camarize/camarize-backend/internal/users"
	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
	"github.com/camarize/camarize-backend/pkg/logger"
	"github.com/camarize/camarize-backend/pkg/metrics"
	"github.com/camarize/camarize-backend/pkg/pagination"
	"github.com/camarize/camarize-backend/pkg/security"
)

const tempPasswordLength = 12

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UserAccounts is the slice of the users repository the approval
// handlers need to create and promote accounts.
type UserAccounts interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
}

// MembershipBinder links users to farms idempotently.
type MembershipBinder interface {
	EnsureMembership(ctx context.Context, userID, farmID uuid.UUID) (*models.FarmMembership, bool, error)
}

// FarmStore is the slice of the farms repository used at approval time.
type FarmStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	Create(ctx context.Context, dto farms.CreateFarmDTO) (*models.Farm, error)
}

// EnclosureStore is the slice of the enclosures repository used by the
// enclosure-mutating handlers.
type EnclosureStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Enclosure, error)
	Create(ctx context.Context, enclosure *models.Enclosure, cond *models.IdealCondition, farmID uuid.UUID) error
	Update(ctx context.Context, enclosure *models.Enclosure) error
	IdealConditionByID(ctx context.Context, id uuid.UUID) (*models.IdealCondition, error)
	SaveIdealCondition(ctx context.Context, cond *models.IdealCondition) error
	LinkSensor(ctx context.Context, enclosureID, sensorID uuid.UUID) error
	UnlinkSensor(ctx context.Context, enclosureID, sensorID uuid.UUID) error
	ListSensors(ctx context.Context, enclosureID uuid.UUID) ([]models.Sensor, error)
}

// SensorStore is the slice of the sensors repository used by the
// sensor-mutating handlers.
type SensorStore interface {
	ListByUserAndKind(ctx context.Context, userID uuid.UUID, kind enums.SensorKind) ([]models.Sensor, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname *string) error
}

// Service exposes the request workflow operations: submission, listing,
// resolution, and requester withdrawal. Approval runs the action's side
// effects and the status flip inside a single transaction; a handler
// failure rolls everything back and leaves the request pending.
type Service interface {
	Create(ctx context.Context, input CreateRequestDTO) (*RequestDTO, error)
	List(ctx context.Context, filter ListFilter) (*RequestPage, error)
	Approve(ctx context.Context, id, approverID uuid.UUID, farmID *uuid.UUID) (*RequestDTO, error)
	Reject(ctx context.Context, id, approverID uuid.UUID) (*RequestDTO, error)
	DeleteByRequester(ctx context.Context, id, requesterID uuid.UUID) error
}

type approvalHandler func(ctx context.Context, tx *gorm.DB, request *models.Request, farmID *uuid.UUID) error

// ServiceParams packages the dependencies for the workflow service. The
// repository factories default to the real repositories bound to the
// transaction; tests inject stubs.
type ServiceParams struct {
	Repo           Repository
	Tx             txRunner
	PasswordConfig config.PasswordConfig
	Metrics        *metrics.TelemetryMetrics
	Logger         *logger.Logger

	Users       func(tx *gorm.DB) UserAccounts
	Memberships func(tx *gorm.DB) MembershipBinder
	Farms       func(tx *gorm.DB) FarmStore
	Enclosures  func(tx *gorm.DB) EnclosureStore
	Sensors     func(tx *gorm.DB) SensorStore
}

type service struct {
	repo        Repository
	tx          txRunner
	passwordCfg config.PasswordConfig
	metrics     *metrics.TelemetryMetrics
	logg        *logger.Logger

	users       func(tx *gorm.DB) UserAccounts
	memberships func(tx *gorm.DB) MembershipBinder
	farms       func(tx *gorm.DB) FarmStore
	enclosures  func(tx *gorm.DB) EnclosureStore
	sensors     func(tx *gorm.DB) SensorStore

	handlers map[enums.RequestAction]approvalHandler
}

// NewService builds a request workflow service with the provided
// dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "requests repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}

	s := &service{
		repo:        params.Repo,
		tx:          params.Tx,
		passwordCfg: params.PasswordConfig,
		metrics:     params.Metrics,
		logg:        params.Logger,
		users:       params.Users,
		memberships: params.Memberships,
		farms:       params.Farms,
		enclosures:  params.Enclosures,
		sensors:     params.Sensors,
	}
	if s.users == nil {
		s.users = func(tx *gorm.DB) UserAccounts { return users.NewRepository(tx) }
	}
	if s.memberships == nil {
		s.memberships = func(tx *gorm.DB) MembershipBinder { return memberships.NewRepository(tx) }
	}
	if s.farms == nil {
		s.farms = func(tx *gorm.DB) FarmStore { return farms.NewRepository(tx) }
	}
	if s.enclosures == nil {
		s.enclosures = func(tx *gorm.DB) EnclosureStore { return enclosures.NewRepository(tx) }
	}
	if s.sensors == nil {
		s.sensors = func(tx *gorm.DB) SensorStore { return sensors.NewRepository(tx) }
	}

	s.handlers = map[enums.RequestAction]approvalHandler{
		enums.RequestActionRegisterOwner:         s.applyRegisterOwner,
		enums.RequestActionAssociateEmployee:     s.applyAssociateEmployee,
		enums.RequestActionRegisterEmployee:      s.applyRegisterEmployee,
		enums.RequestActionCreateEnclosure:       s.applyCreateEnclosure,
		enums.RequestActionEditEnclosure:         s.applyEditEnclosure,
		enums.RequestActionEnclosureAddSensor:    s.applyEnclosureAddSensor,
		enums.RequestActionEnclosureRemoveSensor: s.applyEnclosureRemoveSensor,
		enums.RequestActionEditSensor:            s.applyEditSensor,
	}
	return s, nil
}

// classifyAction maps an action onto its request type and the role that
// must approve it. Light requests are resolved by an admin; heavy ones
// create accounts, farms, or enclosures and go to a master.
func classifyAction(action enums.RequestAction) (enums.RequestType, enums.UserRole) {
	switch action {
	case enums.RequestActionEditEnclosure, enums.RequestActionEditSensor:
		return enums.RequestTypeLight, enums.UserRoleAdmin
	default:
		return enums.RequestTypeHeavy, enums.UserRoleMaster
	}
}

func (s *service) Create(ctx context.Context, input CreateRequestDTO) (*RequestDTO, error) {
	action, err := enums.ParseRequestAction(input.Action)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown request action").
			WithDetails(map[string]string{"action": input.Action})
	}
	if input.RequesterUserID == nil && action != enums.RequestActionRegisterOwner {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester is required")
	}
	if _, err := decodePayload(action, input.Payload); err != nil {
		return nil, err
	}

	reqType, targetRole := classifyAction(action)
	if input.Type != "" {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid request type")
		}
		reqType = input.Type
	}
	if input.TargetRole != "" {
		if !input.TargetRole.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target role")
		}
		targetRole = input.TargetRole
	}
	requesterRole := input.RequesterRole
	if requesterRole == "" {
		requesterRole = enums.UserRoleMembro
	} else if !requesterRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid requester role")
	}

	request := &models.Request{
		RequesterUserID: input.RequesterUserID,
		RequesterRole:   requesterRole,
		TargetRole:      targetRole,
		Type:            reqType,
		Action:          action,
		Payload:         input.Payload,
		FarmID:          input.FarmID,
		Status:          enums.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	return FromModel(request), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*RequestPage, error) {
	rows, next, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}

	page := &RequestPage{Items: make([]RequestDTO, 0, len(rows))}
	for _, row := range rows {
		page.Items = append(page.Items, FromRow(row))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		page.NextCursor = &encoded
	}
	return page, nil
}

func (s *service) Approve(ctx context.Context, id, approverID uuid.UUID, farmID *uuid.UUID) (*RequestDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if approverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "approver id required")
	}

	var resolved *models.Request
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.loadPending(ctx, repo, id)
		if err != nil {
			return err
		}

		handler, ok := s.handlers[request.Action]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInternal, "no handler for request action").
				WithDetails(map[string]string{"action": string(request.Action)})
		}
		if err := handler(ctx, tx, request, farmID); err != nil {
			return err
		}

		payload := scrubCredentials(request.Action, request.Payload)
		flipped, err := repo.Resolve(ctx, request.ID, enums.RequestStatusApproved, approverID, request.RequesterUserID, payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve request")
		}
		if !flipped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already resolved")
		}
		request.Status = enums.RequestStatusApproved
		request.ApproverUserID = &approverID
		request.Payload = payload
		resolved = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncResolved(string(enums.RequestStatusApproved))
	return FromModel(resolved), nil
}

func (s *service) Reject(ctx context.Context, id, approverID uuid.UUID) (*RequestDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if approverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "approver id required")
	}

	var resolved *models.Request
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.loadPending(ctx, repo, id)
		if err != nil {
			return err
		}

		payload := scrubCredentials(request.Action, request.Payload)
		flipped, err := repo.Resolve(ctx, request.ID, enums.RequestStatusRejected, approverID, request.RequesterUserID, payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve request")
		}
		if !flipped {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already resolved")
		}
		request.Status = enums.RequestStatusRejected
		request.ApproverUserID = &approverID
		request.Payload = payload
		resolved = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncResolved(string(enums.RequestStatusRejected))
	return FromModel(resolved), nil
}

// DeleteByRequester withdraws a pending request. A mismatch between the
// caller and the stored requester reports not found rather than
// forbidden, so existence is not revealed to other users.
func (s *service) DeleteByRequester(ctx context.Context, id, requesterID uuid.UUID) error {
	if id == uuid.Nil || requesterID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id and requester id required")
	}
	found, err := s.repo.DeleteByRequester(ctx, id, requesterID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete request")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
	}
	return nil
}

func (s *service) loadPending(ctx context.Context, repo Repository, id uuid.UUID) (*models.Request, error) {
	request, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if request.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already resolved").
			WithDetails(map[string]string{"status": string(request.Status)})
	}
	return request, nil
}

func (s *service) applyRegisterOwner(ctx context.Context, tx *gorm.DB, request *models.Request, _ *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*RegisterOwnerPayload)

	userRepo := s.users(tx)
	farmRepo := s.farms(tx)
	membershipRepo := s.memberships(tx)

	email := normalizeEmail(payload.Email)
	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up owner by email")
	}

	// The farm is always created, even when the owner self-registered
	// while the request was pending.
	farm, err := farmRepo.Create(ctx, farms.CreateFarmDTO{
		Name:     payload.Farm.Name,
		Street:   payload.Farm.Street,
		District: payload.Farm.District,
		City:     payload.Farm.City,
		Number:   payload.Farm.Number,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farm")
	}

	if user == nil {
		hash, err := s.hashOrTempPassword(payload.Password)
		if err != nil {
			return err
		}
		user, err = userRepo.Create(ctx, users.CreateUserDTO{
			Name:         payload.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         enums.UserRoleAdmin,
			PhotoURL:     payload.PhotoURL,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create owner user")
		}
	} else if user.Role == enums.UserRoleMembro {
		if err := userRepo.UpdateRole(ctx, user.ID, enums.UserRoleAdmin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote owner role")
		}
	}

	if _, _, err := membershipRepo.EnsureMembership(ctx, user.ID, farm.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bind owner to farm")
	}

	request.RequesterUserID = &user.ID
	return nil
}

func (s *service) applyAssociateEmployee(ctx context.Context, tx *gorm.DB, request *models.Request, farmID *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*AssociateEmployeePayload)

	target, err := targetFarm(request, farmID)
	if err != nil {
		return err
	}

	userRepo := s.users(tx)
	farmRepo := s.farms(tx)
	membershipRepo := s.memberships(tx)

	if _, err := farmRepo.FindByID(ctx, target); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}

	user, err := userRepo.FindByEmail(ctx, normalizeEmail(payload.EmployeeEmail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found; the employee must register first")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up employee by email")
	}
	if user.Role != enums.UserRoleMembro {
		return pkgerrors.New(pkgerrors.CodeValidation, "only members can be associated to a farm this way")
	}

	_, created, err := membershipRepo.EnsureMembership(ctx, user.ID, target)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bind employee to farm")
	}
	if !created && s.logg != nil {
		s.logg.Info(ctx, "employee already associated to farm")
	}

	request.RequesterUserID = &user.ID
	return nil
}

func (s *service) applyRegisterEmployee(ctx context.Context, tx *gorm.DB, request *models.Request, farmID *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*RegisterEmployeePayload)

	target, err := targetFarm(request, farmID)
	if err != nil {
		return err
	}

	userRepo := s.users(tx)
	farmRepo := s.farms(tx)
	membershipRepo := s.memberships(tx)

	email := normalizeEmail(payload.Email)
	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up employee by email")
	}

	if user == nil {
		if _, err := farmRepo.FindByID(ctx, target); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
		}
		hash, err := s.hashOrTempPassword(payload.Password)
		if err != nil {
			return err
		}
		user, err = userRepo.Create(ctx, users.CreateUserDTO{
			Name:         payload.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         enums.UserRoleMembro,
			PhotoURL:     payload.PhotoURL,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee user")
		}
	}

	if _, _, err := membershipRepo.EnsureMembership(ctx, user.ID, target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bind employee to farm")
	}

	request.RequesterUserID = &user.ID
	return nil
}

func (s *service) applyCreateEnclosure(ctx context.Context, tx *gorm.DB, request *models.Request, farmID *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*CreateEnclosurePayload)

	target := payload.FarmID
	if target == nil {
		target = request.FarmID
	}
	if target == nil {
		target = farmID
	}
	if target == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "target farm is required")
	}

	farmRepo := s.farms(tx)
	enclosureRepo := s.enclosures(tx)

	if _, err := farmRepo.FindByID(ctx, *target); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}

	installedAt, err := parseInstalledAt(payload.InstalledAt)
	if err != nil {
		return err
	}

	enclosure := &models.Enclosure{
		Name:         strings.TrimSpace(payload.Name),
		ShrimpTypeID: payload.ShrimpTypeID,
		InstalledAt:  installedAt,
	}
	var cond *models.IdealCondition
	if payload.TempIdeal != nil || payload.PHIdeal != nil || payload.AmmoniaIdeal != nil {
		cond = &models.IdealCondition{
			ShrimpTypeID: payload.ShrimpTypeID,
			TempIdeal:    payload.TempIdeal,
			PHIdeal:      payload.PHIdeal,
			AmmoniaIdeal: payload.AmmoniaIdeal,
		}
	}
	if err := enclosureRepo.Create(ctx, enclosure, cond, *target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create enclosure")
	}
	return nil
}

func (s *service) applyEditEnclosure(ctx context.Context, tx *gorm.DB, request *models.Request, _ *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*EditEnclosurePayload)

	enclosureRepo := s.enclosures(tx)
	enclosure, err := enclosureRepo.FindByID(ctx, payload.EnclosureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "enclosure not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load enclosure")
	}

	if payload.Name != nil {
		enclosure.Name = *payload.Name
	}
	if payload.ShrimpTypeID != nil {
		enclosure.ShrimpTypeID = payload.ShrimpTypeID
	}
	if err := enclosureRepo.Update(ctx, enclosure); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update enclosure")
	}

	if payload.TempIdeal == nil && payload.PHIdeal == nil && payload.AmmoniaIdeal == nil {
		return nil
	}

	var cond *models.IdealCondition
	if enclosure.IdealConditionID != nil {
		cond, err = enclosureRepo.IdealConditionByID(ctx, *enclosure.IdealConditionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ideal condition")
		}
	}
	if cond == nil {
		cond = &models.IdealCondition{ShrimpTypeID: enclosure.ShrimpTypeID}
	}
	if payload.TempIdeal != nil {
		cond.TempIdeal = payload.TempIdeal
	}
	if payload.PHIdeal != nil {
		cond.PHIdeal = payload.PHIdeal
	}
	if payload.AmmoniaIdeal != nil {
		cond.AmmoniaIdeal = payload.AmmoniaIdeal
	}
	if err := enclosureRepo.SaveIdealCondition(ctx, cond); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save ideal condition")
	}
	if enclosure.IdealConditionID == nil {
		enclosure.IdealConditionID = &cond.ID
		if err := enclosureRepo.Update(ctx, enclosure); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bind ideal condition")
		}
	}
	return nil
}

// applyEnclosureAddSensor links one of the requester's sensors of each
// requested kind to the enclosure, skipping sensors that are already
// linked.
func (s *service) applyEnclosureAddSensor(ctx context.Context, tx *gorm.DB, request *models.Request, _ *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*EnclosureSensorsPayload)

	if request.RequesterUserID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request has no requester")
	}

	enclosureRepo := s.enclosures(tx)
	sensorRepo := s.sensors(tx)

	if _, err := enclosureRepo.FindByID(ctx, payload.EnclosureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "enclosure not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load enclosure")
	}

	linked, err := enclosureRepo.ListSensors(ctx, payload.EnclosureID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enclosure sensors")
	}
	alreadyLinked := make(map[uuid.UUID]bool, len(linked))
	for _, sensor := range linked {
		alreadyLinked[sensor.ID] = true
	}

	for _, kind := range payload.Kinds {
		candidates, err := sensorRepo.ListByUserAndKind(ctx, *request.RequesterUserID, kind)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sensors by kind")
		}
		var picked *models.Sensor
		for i := range candidates {
			if !alreadyLinked[candidates[i].ID] {
				picked = &candidates[i]
				break
			}
		}
		if picked == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no available sensor of requested kind").
				WithDetails(map[string]string{"tipo": string(kind)})
		}
		if err := enclosureRepo.LinkSensor(ctx, payload.EnclosureID, picked.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link sensor")
		}
		alreadyLinked[picked.ID] = true
	}
	return nil
}

// applyEnclosureRemoveSensor unlinks every sensor of the requested kinds
// from the enclosure. Kinds with no linked sensor are a no-op, so
// removal stays idempotent.
func (s *service) applyEnclosureRemoveSensor(ctx context.Context, tx *gorm.DB, request *models.Request, _ *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*EnclosureSensorsPayload)

	enclosureRepo := s.enclosures(tx)
	linked, err := enclosureRepo.ListSensors(ctx, payload.EnclosureID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enclosure sensors")
	}

	wanted := make(map[enums.SensorKind]bool, len(payload.Kinds))
	for _, kind := range payload.Kinds {
		wanted[kind] = true
	}
	for _, sensor := range linked {
		if !wanted[sensor.Kind] {
			continue
		}
		if err := enclosureRepo.UnlinkSensor(ctx, payload.EnclosureID, sensor.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink sensor")
		}
	}
	return nil
}

func (s *service) applyEditSensor(ctx context.Context, tx *gorm.DB, request *models.Request, _ *uuid.UUID) error {
	decoded, err := decodePayload(request.Action, request.Payload)
	if err != nil {
		return err
	}
	payload := decoded.(*EditSensorPayload)

	nickname := strings.TrimSpace(payload.Nickname)
	if err := s.sensors(tx).UpdateNickname(ctx, payload.SensorID, &nickname); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sensor nickname")
	}
	return nil
}

func (s *service) hashOrTempPassword(password string) (string, error) {
	if password == "" {
		temp, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
		}
		password = temp
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}

// targetFarm resolves the farm an association-type approval applies to:
// the explicit approval parameter wins, then the farm recorded on the
// request itself.
func targetFarm(request *models.Request, farmID *uuid.UUID) (uuid.UUID, error) {
	if farmID != nil && *farmID != uuid.Nil {
		return *farmID, nil
	}
	if request.FarmID != nil && *request.FarmID != uuid.Nil {
		return *request.FarmID, nil
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "target farm is required to approve this request")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseInstalledAt(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	raw := strings.TrimSpace(*value)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid installation date").
		WithDetails(map[string]string{"data_instalacao": raw})
}
