package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/pkg/enums"
)

type membershipWithFarmRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FarmID    uuid.UUID
	Active    *bool
	FarmName  string
	FarmCity  string
	CreatedAt time.Time
}

type farmUserRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string
	Role      enums.UserRole
	Active    *bool
	CreatedAt time.Time
}

// activeValue treats a NULL active flag as active; rows created before the
// flag existed never carried one.
func activeValue(active *bool) bool {
	return active == nil || *active
}

func membershipWithFarmFromRow(row membershipWithFarmRow) MembershipWithFarm {
	return MembershipWithFarm{
		MembershipID: row.ID,
		UserID:       row.UserID,
		FarmID:       row.FarmID,
		Active:       activeValue(row.Active),
		FarmName:     row.FarmName,
		FarmCity:     row.FarmCity,
		CreatedAt:    row.CreatedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithFarmRow) []MembershipWithFarm {
	out := make([]MembershipWithFarm, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithFarmFromRow(row))
	}
	return out
}

func farmUserFromRow(row farmUserRow) FarmUserDTO {
	return FarmUserDTO{
		MembershipID: row.ID,
		UserID:       row.UserID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         row.Role,
		Active:       activeValue(row.Active),
		CreatedAt:    row.CreatedAt,
	}
}

func farmUserRowsToDTO(rows []farmUserRow) []FarmUserDTO {
	out := make([]FarmUserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, farmUserFromRow(row))
	}
	return out
}
