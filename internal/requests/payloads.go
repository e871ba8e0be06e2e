package requests

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

// OwnerFarmPayload carries the farm fields embedded in an owner
// registration request.
type OwnerFarmPayload struct {
	Name     string  `json:"nome"`
	Street   string  `json:"rua"`
	District string  `json:"bairro"`
	City     string  `json:"cidade"`
	Number   *string `json:"numero,omitempty"`
}

// RegisterOwnerPayload is the payload for cadastrar_proprietario. The
// requester account does not exist yet; approval creates both the user
// and the farm.
type RegisterOwnerPayload struct {
	Name     string            `json:"nome"`
	Email    string            `json:"email"`
	Password string            `json:"senha"`
	PhotoURL *string           `json:"foto_perfil,omitempty"`
	Farm     *OwnerFarmPayload `json:"fazenda"`
}

// Validate checks the owner registration fields.
func (p RegisterOwnerPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner email is required")
	}
	if p.Farm == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "farm data is required")
	}
	if strings.TrimSpace(p.Farm.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "farm name is required")
	}
	if strings.TrimSpace(p.Farm.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "farm city is required")
	}
	return nil
}

// AssociateEmployeePayload is the payload for associar_funcionario.
// The target farm comes from the approval call, not the payload.
type AssociateEmployeePayload struct {
	EmployeeEmail string `json:"emailFuncionario"`
}

// Validate checks the association fields.
func (p AssociateEmployeePayload) Validate() error {
	if strings.TrimSpace(p.EmployeeEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee email is required")
	}
	return nil
}

// RegisterEmployeePayload is the payload for the legacy
// cadastrar_funcionario action. When the password is blank a temporary
// one is generated at approval time.
type RegisterEmployeePayload struct {
	Name     string  `json:"nome"`
	Email    string  `json:"email"`
	Password string  `json:"senha"`
	PhotoURL *string `json:"foto_perfil,omitempty"`
}

// Validate checks the employee registration fields.
func (p RegisterEmployeePayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee email is required")
	}
	return nil
}

// CreateEnclosurePayload is the payload for cadastrar_cativeiro.
type CreateEnclosurePayload struct {
	FarmID       *uuid.UUID `json:"fazendaId,omitempty"`
	Name         string     `json:"nome"`
	ShrimpTypeID *uuid.UUID `json:"id_tipo_camarao,omitempty"`
	InstalledAt  *string    `json:"data_instalacao,omitempty"`
	TempIdeal    *float64   `json:"temp_media_diaria,omitempty"`
	PHIdeal      *float64   `json:"ph_medio_diario,omitempty"`
	AmmoniaIdeal *float64   `json:"amonia_media_diaria,omitempty"`
}

// Validate checks the enclosure creation fields.
func (p CreateEnclosurePayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "enclosure name is required")
	}
	return nil
}

// EditEnclosurePayload is the payload for editar_cativeiro. All fields
// other than the target id are optional patch values.
type EditEnclosurePayload struct {
	EnclosureID  uuid.UUID  `json:"cativeiroId"`
	Name         *string    `json:"nome,omitempty"`
	ShrimpTypeID *uuid.UUID `json:"id_tipo_camarao,omitempty"`
	TempIdeal    *float64   `json:"temp_media_diaria,omitempty"`
	PHIdeal      *float64   `json:"ph_medio_diario,omitempty"`
	AmmoniaIdeal *float64   `json:"amonia_media_diaria,omitempty"`
}

// Validate checks the enclosure patch fields.
func (p EditEnclosurePayload) Validate() error {
	if p.EnclosureID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "enclosure id is required")
	}
	if p.Name == nil && p.ShrimpTypeID == nil && p.TempIdeal == nil && p.PHIdeal == nil && p.AmmoniaIdeal == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be changed")
	}
	return nil
}

// EnclosureSensorsPayload is shared by editar_cativeiro_add_sensor and
// editar_cativeiro_remove_sensor: the target enclosure plus the sensor
// kinds to link or unlink.
type EnclosureSensorsPayload struct {
	EnclosureID uuid.UUID          `json:"cativeiroId"`
	Kinds       []enums.SensorKind `json:"tipos"`
}

// Validate checks the sensor link fields.
func (p EnclosureSensorsPayload) Validate() error {
	if p.EnclosureID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "enclosure id is required")
	}
	if len(p.Kinds) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one sensor kind is required")
	}
	for _, kind := range p.Kinds {
		if !kind.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid sensor kind").
				WithDetails(map[string]string{"tipo": string(kind)})
		}
	}
	return nil
}

// EditSensorPayload is the payload for editar_sensor.
type EditSensorPayload struct {
	SensorID uuid.UUID `json:"id"`
	Nickname string    `json:"apelido"`
}

// Validate checks the sensor patch fields.
func (p EditSensorPayload) Validate() error {
	if p.SensorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sensor id is required")
	}
	if strings.TrimSpace(p.Nickname) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sensor nickname is required")
	}
	return nil
}

type validatable interface {
	Validate() error
}

// decodePayload unmarshals the raw payload into the typed variant for
// the given action and validates it. Every known action maps to exactly
// one payload shape.
func decodePayload(action enums.RequestAction, raw json.RawMessage) (any, error) {
	var payload validatable
	switch action {
	case enums.RequestActionRegisterOwner:
		payload = &RegisterOwnerPayload{}
	case enums.RequestActionAssociateEmployee:
		payload = &AssociateEmployeePayload{}
	case enums.RequestActionRegisterEmployee:
		payload = &RegisterEmployeePayload{}
	case enums.RequestActionCreateEnclosure:
		payload = &CreateEnclosurePayload{}
	case enums.RequestActionEditEnclosure:
		payload = &EditEnclosurePayload{}
	case enums.RequestActionEnclosureAddSensor, enums.RequestActionEnclosureRemoveSensor:
		payload = &EnclosureSensorsPayload{}
	case enums.RequestActionEditSensor:
		payload = &EditSensorPayload{}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown request action").
			WithDetails(map[string]string{"action": string(action)})
	}

	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request payload is required")
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode request payload")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// scrubCredentials strips the senha field from payloads that carry
// account credentials, so a resolved request does not keep a plaintext
// password readable in the queue.
func scrubCredentials(action enums.RequestAction, payload json.RawMessage) json.RawMessage {
	switch action {
	case enums.RequestActionRegisterOwner, enums.RequestActionRegisterEmployee:
	default:
		return payload
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return payload
	}
	delete(fields, "senha")
	scrubbed, err := json.Marshal(fields)
	if err != nil {
		return payload
	}
	return scrubbed
}
