package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	NombreCompleto string `json:"nombreCompleto" validate:"required,min=1,max=150"`
	Email          string `json:"email" validate:"omitempty,email,max=150"`
	RolID          string `json:"rolId" validate:"required,uuid"`
}

// UpdateUserRequest entrada para actualizar un usuario; los campos nil no cambian.
type UpdateUserRequest struct {
	Password       *string `json:"password" validate:"omitempty,min=8,max=72"`
	NombreCompleto *string `json:"nombreCompleto" validate:"omitempty,min=1,max=150"`
	Email          *string `json:"email" validate:"omitempty,email,max=150"`
	RolID          *string `json:"rolId" validate:"omitempty,uuid"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	NombreCompleto string    `json:"nombreCompleto"`
	Email          string    `json:"email,omitempty"`
	Activo         bool      `json:"activo"`
	RolID          string    `json:"rolId"`
	Rol            string    `json:"rol"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest entrada para renovar el access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LoginResponse salida con access y refresh token.
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	TokenType    string       `json:"tokenType"`
	ExpiresIn    int          `json:"expiresIn"` // segundos
	User         UserResponse `json:"user"`
}
