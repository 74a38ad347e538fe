package entity

import "time"

// User representa un usuario del sistema. Email es opcional pero único si existe.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Email        string
	Active       bool
	RoleID       string
	RoleName     string // materializado por el repositorio (JOIN roles), no persistido en users
	CreatedAt    time.Time
}
