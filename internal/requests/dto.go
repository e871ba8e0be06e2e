package requests

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/db/models"
	"github.com/camarize/camarize-backend/pkg/enums"
)

// UserRefDTO is the display projection of a user joined onto a request.
type UserRefDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"nome"`
	Email string    `json:"email"`
}

// RequestDTO is the wire representation of a change request, populated
// with requester, approver, and farm display fields.
type RequestDTO struct {
	ID            uuid.UUID           `json:"id"`
	Requester     *UserRefDTO         `json:"solicitante,omitempty"`
	RequesterRole enums.UserRole      `json:"role_solicitante"`
	TargetRole    enums.UserRole      `json:"role_destino"`
	Type          enums.RequestType   `json:"tipo"`
	Action        enums.RequestAction `json:"action"`
	Payload       json.RawMessage     `json:"payload"`
	FarmID        *uuid.UUID          `json:"fazenda_id,omitempty"`
	FarmName      *string             `json:"fazenda_nome,omitempty"`
	Status        enums.RequestStatus `json:"status"`
	Approver      *UserRefDTO         `json:"aprovador,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// RequestPage wraps a page of requests together with the cursor for the
// next page, when one exists.
type RequestPage struct {
	Items      []RequestDTO `json:"items"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// CreateRequestDTO holds creation-time data for a new request. The
// requester may be nil for owner self-registration, where the account
// does not exist yet. Type and TargetRole are derived from the action
// when left blank.
type CreateRequestDTO struct {
	RequesterUserID *uuid.UUID
	RequesterRole   enums.UserRole
	TargetRole      enums.UserRole
	Type            enums.RequestType
	Action          string
	Payload         json.RawMessage
	FarmID          *uuid.UUID
}

// FromModel maps a persisted request into a DTO without display fields.
func FromModel(m *models.Request) *RequestDTO {
	if m == nil {
		return nil
	}
	dto := &RequestDTO{
		ID:            m.ID,
		RequesterRole: m.RequesterRole,
		TargetRole:    m.TargetRole,
		Type:          m.Type,
		Action:        m.Action,
		Payload:       m.Payload,
		FarmID:        m.FarmID,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
	if m.RequesterUserID != nil {
		dto.Requester = &UserRefDTO{ID: *m.RequesterUserID}
	}
	if m.ApproverUserID != nil {
		dto.Approver = &UserRefDTO{ID: *m.ApproverUserID}
	}
	return dto
}

// FromRow maps a joined list row into a DTO with display fields.
func FromRow(row RequestRow) RequestDTO {
	dto := RequestDTO{
		ID:            row.ID,
		RequesterRole: row.RequesterRole,
		TargetRole:    row.TargetRole,
		Type:          row.Type,
		Action:        row.Action,
		Payload:       row.Payload,
		FarmID:        row.FarmID,
		FarmName:      row.FarmName,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
	}
	if row.RequesterUserID != nil {
		dto.Requester = &UserRefDTO{
			ID:    *row.RequesterUserID,
			Name:  derefString(row.RequesterName),
			Email: derefString(row.RequesterEmail),
		}
	}
	if row.ApproverUserID != nil {
		dto.Approver = &UserRefDTO{
			ID:    *row.ApproverUserID,
			Name:  derefString(row.ApproverName),
			Email: derefString(row.ApproverEmail),
		}
	}
	return dto
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
