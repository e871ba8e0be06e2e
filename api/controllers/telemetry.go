package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/api/responses"
	"github.com/camarize/camarize-backend/api/validators"
	"github.com/camarize/camarize-backend/internal/telemetry"
	"github.com/camarize/camarize-backend/pkg/logger"
)

// TelemetryIngest records a sensor reading for an enclosure. The
// endpoint is what field hardware posts to.
func TelemetryIngest(svc telemetry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			EnclosureID uuid.UUID  `json:"id_cativeiro" validate:"required"`
			Temperature *float64   `json:"temperatura,omitempty"`
			PH          *float64   `json:"ph,omitempty"`
			Ammonia     *float64   `json:"amonia,omitempty"`
			RecordedAt  *time.Time `json:"datahora,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reading, err := svc.Ingest(r.Context(), telemetry.IngestReadingDTO{
			EnclosureID: body.EnclosureID,
			Temperature: body.Temperature,
			PH:          body.PH,
			Ammonia:     body.Ammonia,
			RecordedAt:  body.RecordedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reading)
	}
}

// TelemetryLatest returns the most recent reading of an enclosure.
func TelemetryLatest(svc telemetry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enclosureID, err := validators.ParseUUIDParam(r, "enclosureId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reading, err := svc.Latest(r.Context(), enclosureID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reading)
	}
}

// TelemetryHistory returns readings for the trailing N days.
func TelemetryHistory(svc telemetry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enclosureID, err := validators.ParseUUIDParam(r, "enclosureId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days, err := validators.ParseQueryInt(r, "days", 7, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		readings, err := svc.History(r.Context(), enclosureID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, readings)
	}
}

// TelemetryDashboard combines the latest reading with daily averages.
func TelemetryDashboard(svc telemetry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enclosureID, err := validators.ParseUUIDParam(r, "enclosureId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), enclosureID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
