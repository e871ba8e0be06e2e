package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/api/responses"
	"github.com/camarize/camarize-backend/api/validators"
	"github.com/camarize/camarize-backend/internal/enclosures"
	"github.com/camarize/camarize-backend/pkg/logger"
)

type enclosureCreateBody struct {
	Name         string     `json:"nome" validate:"required"`
	FarmID       uuid.UUID  `json:"fazendaId" validate:"required"`
	ShrimpTypeID *uuid.UUID `json:"id_tipo_camarao,omitempty"`
	DietID       *uuid.UUID `json:"id_dieta,omitempty"`
	PhotoURL     *string    `json:"foto_cativeiro,omitempty"`
	InstalledAt  *time.Time `json:"data_instalacao,omitempty"`
	TempIdeal    *float64   `json:"temp_media_diaria,omitempty"`
	PHIdeal      *float64   `json:"ph_medio_diario,omitempty"`
	AmmoniaIdeal *float64   `json:"amonia_media_diaria,omitempty"`
}

type enclosureUpdateBody struct {
	Name         *string    `json:"nome,omitempty"`
	ShrimpTypeID *uuid.UUID `json:"id_tipo_camarao,omitempty"`
	DietID       *uuid.UUID `json:"id_dieta,omitempty"`
	PhotoURL     *string    `json:"foto_cativeiro,omitempty"`
	InstalledAt  *time.Time `json:"data_instalacao,omitempty"`
	TempIdeal    *float64   `json:"temp_media_diaria,omitempty"`
	PHIdeal      *float64   `json:"ph_medio_diario,omitempty"`
	AmmoniaIdeal *float64   `json:"amonia_media_diaria,omitempty"`
}

// EnclosureListByFarm lists the enclosures of a farm.
func EnclosureListByFarm(svc enclosures.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.ListByFarm(r.Context(), actorID, role, farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// EnclosureDetail returns one enclosure with its linked sensors.
func EnclosureDetail(svc enclosures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enclosureID, err := validators.ParseUUIDParam(r, "enclosureId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enclosure, err := svc.GetByID(r.Context(), actorID, role, enclosureID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, enclosure)
	}
}

// EnclosureCreate creates an enclosure directly, bypassing the request
// workflow. Reserved for masters.
func EnclosureCreate(svc enclosures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body enclosureCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enclosure, err := svc.Create(r.Context(), actorID, role, enclosures.CreateEnclosureDTO{
			Name:         body.Name,
			FarmID:       body.FarmID,
			ShrimpTypeID: body.ShrimpTypeID,
			DietID:       body.DietID,
			PhotoURL:     body.PhotoURL,
			InstalledAt:  body.InstalledAt,
			TempIdeal:    body.TempIdeal,
			PHIdeal:      body.PHIdeal,
			AmmoniaIdeal: body.AmmoniaIdeal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, enclosure)
	}
}

// EnclosureUpdate patches an enclosure and its ideal conditions.
func EnclosureUpdate(svc enclosures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enclosureID, err := validators.ParseUUIDParam(r, "enclosureId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body enclosureUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enclosure, err := svc.Update(r.Context(), actorID, role, enclosureID, enclosures.UpdateEnclosureDTO{
			Name:         body.Name,
			ShrimpTypeID: body.ShrimpTypeID,
			DietID:       body.DietID,
			PhotoURL:     body.PhotoURL,
			InstalledAt:  body.InstalledAt,
			TempIdeal:    body.TempIdeal,
			PHIdeal:      body.PHIdeal,
			AmmoniaIdeal: body.AmmoniaIdeal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, enclosure)
	}
}

// EnclosureDelete removes an enclosure.
func EnclosureDelete(svc enclosures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enclosureID, err := validators.ParseUUIDParam(r, "enclosureId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, role, enclosureID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
