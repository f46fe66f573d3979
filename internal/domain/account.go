package domain

import (
	"strings"
	"time"
)

// Account is the persisted user record. Email is the natural key.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// NormalizeEmail is the single case policy for lookup and persistence.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
