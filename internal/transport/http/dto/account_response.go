package dto

import "time"

type RegisterResponse struct {
	ID string `json:"id"`
}

// MeResponse is the authenticated caller's view of their account.
type MeResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
