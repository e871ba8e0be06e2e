package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/api/middleware"
	"github.com/camarize/camarize-backend/pkg/enums"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

// actorFromRequest resolves the authenticated user id and role seeded by
// the auth middleware.
func actorFromRequest(r *http.Request) (uuid.UUID, enums.UserRole, error) {
	rawID := middleware.UserIDFromContext(r.Context())
	if rawID == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}
	return id, role, nil
}
