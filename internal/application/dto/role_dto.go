package dto

// RoleRequest entrada para crear o actualizar un rol.
type RoleRequest struct {
	Nombre      string `json:"nombre" validate:"required,min=2,max=50"`
	Descripcion string `json:"descripcion" validate:"max=255"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Sistema     bool   `json:"sistema"`
}
