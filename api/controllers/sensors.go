package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/api/responses"
	"github.com/camarize/camarize-backend/api/validators"
	"github.com/camarize/camarize-backend/internal/sensors"
	"github.com/camarize/camarize-backend/pkg/logger"
)

// SensorList returns the sensors owned by the authenticated user.
func SensorList(svc sensors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SensorDetail returns one sensor, subject to ownership checks.
func SensorDetail(svc sensors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sensorID, err := validators.ParseUUIDParam(r, "sensorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sensor, err := svc.GetByID(r.Context(), actorID, role, sensorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sensor)
	}
}

// SensorCreate registers a sensor. Without an explicit owner the sensor
// belongs to the caller.
func SensorCreate(svc sensors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Kind     string     `json:"tipo" validate:"required"`
			Nickname *string    `json:"apelido,omitempty"`
			UserID   *uuid.UUID `json:"id_usuario,omitempty"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner := body.UserID
		if owner == nil {
			owner = &actorID
		}

		sensor, err := svc.Create(r.Context(), sensors.CreateSensorDTO{
			Kind:     body.Kind,
			Nickname: body.Nickname,
			UserID:   owner,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sensor)
	}
}

// SensorUpdateNickname renames a sensor.
func SensorUpdateNickname(svc sensors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sensorID, err := validators.ParseUUIDParam(r, "sensorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Nickname *string `json:"apelido"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sensor, err := svc.UpdateNickname(r.Context(), actorID, role, sensorID, body.Nickname)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sensor)
	}
}

// SensorDelete removes a sensor.
func SensorDelete(svc sensors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sensorID, err := validators.ParseUUIDParam(r, "sensorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, role, sensorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
