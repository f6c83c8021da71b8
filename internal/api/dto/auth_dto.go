package dto

import (
	"time"

	"github.com/opsdesk/ticketflow/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	UserID    string        `json:"user_id"`
	Name      string        `json:"name"`
	Roles     []domain.Role `json:"roles"`
}
