package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/api/responses"
	"github.com/camarize/camarize-backend/api/validators"
	"github.com/camarize/camarize-backend/internal/farms"
	"github.com/camarize/camarize-backend/internal/requests"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
	"github.com/camarize/camarize-backend/pkg/logger"
)

// FarmList returns the farms visible to the authenticated user.
func FarmList(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), actorID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// FarmDetail returns one farm, subject to membership checks.
func FarmDetail(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.GetByID(r.Context(), actorID, role, farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// FarmUsers lists the members of a farm.
func FarmUsers(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		members, err := svc.ListUsers(r.Context(), actorID, role, farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}

// FarmUpdatePhoto replaces or clears the farm photo.
func FarmUpdatePhoto(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			PhotoURL *string `json:"foto_fazenda"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.UpdatePhoto(r.Context(), actorID, role, farmID, body.PhotoURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// FarmAssociateEmployee files an association request that a master must
// approve before the employee joins the farm.
func FarmAssociateEmployee(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body requests.AssociateEmployeePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := json.Marshal(body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode payload"))
			return
		}

		request, err := svc.Create(r.Context(), requests.CreateRequestDTO{
			RequesterUserID: &actorID,
			RequesterRole:   role,
			Action:          string(enums.RequestActionAssociateEmployee),
			Payload:         payload,
			FarmID:          &farmID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, request)
	}
}

type farmCreateBody struct {
	Name     string  `json:"nome" validate:"required,min=2"`
	Street   string  `json:"rua"`
	District string  `json:"bairro"`
	City     string  `json:"cidade" validate:"required"`
	Number   *string `json:"numero"`
	PhotoURL *string `json:"foto_fazenda"`
	OwnerID  *string `json:"proprietario_id" validate:"omitempty,uuid"`
}

// FarmCreate registers a farm directly, bypassing the approval flow.
// The owner membership goes to proprietario_id when given, otherwise
// to the caller.
func FarmCreate(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body farmCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ownerID := actorID
		if body.OwnerID != nil {
			parsed, err := uuid.Parse(*body.OwnerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid proprietario_id"))
				return
			}
			ownerID = parsed
		}

		farm, err := svc.Create(r.Context(), ownerID, farms.CreateFarmDTO{
			Name:     body.Name,
			Street:   body.Street,
			District: body.District,
			City:     body.City,
			Number:   body.Number,
			PhotoURL: body.PhotoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, farm)
	}
}
