package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/enums"
)

// MembershipWithFarm joins a membership with farm display fields.
type MembershipWithFarm struct {
	MembershipID uuid.UUID `json:"membership_id"`
	UserID       uuid.UUID `json:"user_id"`
	FarmID       uuid.UUID `json:"fazenda_id"`
	Active       bool      `json:"ativo"`
	FarmName     string    `json:"fazenda_nome"`
	FarmCity     string    `json:"fazenda_cidade"`
	CreatedAt    time.Time `json:"created_at"`
}

// FarmUserDTO joins a membership with user display fields.
type FarmUserDTO struct {
	MembershipID uuid.UUID      `json:"membership_id"`
	UserID       uuid.UUID      `json:"user_id"`
	Name         string         `json:"nome"`
	Email        string         `json:"email"`
	Role         enums.UserRole `json:"role"`
	Active       bool           `json:"ativo"`
	CreatedAt    time.Time      `json:"created_at"`
}
