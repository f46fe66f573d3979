package postgres

import "time"

// accountRow mirrors the accounts table.
type accountRow struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
