package domain

import "time"

// AdminRole tags administrative accounts.
type AdminRole string

const AdminRoleAdmin AdminRole = "admin"

// Admin is the domain model for console administrators.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	Role         AdminRole
	CreatedAt    time.Time
}
