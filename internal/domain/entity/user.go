package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Role         string // ADMIN, MANAGER, STAFF
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
