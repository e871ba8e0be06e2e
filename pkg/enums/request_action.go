package enums

import "fmt"

// RequestAction identifies what kind of change a request proposes. The tags
// are the wire-level action strings the mobile and admin clients already send;
// the set is closed and every action has an approval-time handler.
type RequestAction string

const (
	RequestActionRegisterOwner         RequestAction = "cadastrar_proprietario"
	RequestActionAssociateEmployee     RequestAction = "associar_funcionario"
	RequestActionRegisterEmployee      RequestAction = "cadastrar_funcionario"
	RequestActionCreateEnclosure       RequestAction = "cadastrar_cativeiro"
	RequestActionEditEnclosure         RequestAction = "editar_cativeiro"
	RequestActionEnclosureAddSensor    RequestAction = "editar_cativeiro_add_sensor"
	RequestActionEnclosureRemoveSensor RequestAction = "editar_cativeiro_remove_sensor"
	RequestActionEditSensor            RequestAction = "editar_sensor"
)

var validRequestActions = []RequestAction{
	RequestActionRegisterOwner,
	RequestActionAssociateEmployee,
	RequestActionRegisterEmployee,
	RequestActionCreateEnclosure,
	RequestActionEditEnclosure,
	RequestActionEnclosureAddSensor,
	RequestActionEnclosureRemoveSensor,
	RequestActionEditSensor,
}

// String implements fmt.Stringer.
func (a RequestAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known RequestAction.
func (a RequestAction) IsValid() bool {
	for _, candidate := range validRequestActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseRequestAction converts raw input into a RequestAction.
func ParseRequestAction(value string) (RequestAction, error) {
	for _, candidate := range validRequestActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request action %q", value)
}

// RequestActions returns the closed set of known actions.
func RequestActions() []RequestAction {
	out := make([]RequestAction, len(validRequestActions))
	copy(out, validRequestActions)
	return out
}
