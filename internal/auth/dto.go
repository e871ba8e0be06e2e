package auth

import (
	"github.com/google/uuid"

	"github.com/camarize/camarize-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// FarmSummary describes the farm metadata returned after login.
type FarmSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"nome"`
	City string    `json:"cidade"`
}

// LoginResponse contains the tokens, user, and farm list produced by a
// successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Farms        []FarmSummary  `json:"fazendas"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expired access token and the refresh token
// used to rotate the session.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
