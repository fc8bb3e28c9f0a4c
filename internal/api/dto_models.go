package api

import (
	"github.com/Carlvinchi/recipiverse/internal/models"
)

// ErrorResponse is the generic error envelope returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is the generic envelope for simple success messages.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// AuthResponse reports the terminal auth state of a sign-in or sign-up,
// plus the profile when the flow ended authenticated.
type AuthResponse struct {
	State   models.AuthState    `json:"state"`
	Profile *models.UserProfile `json:"profile,omitempty"`
}

// FeedResponse wraps a feed query result.
type FeedResponse struct {
	Posts []models.Post `json:"posts"`
}
