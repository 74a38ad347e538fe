package entity

// Roles del sistema (no se pueden eliminar).
const (
	RoleAdmin    = "ADMIN"
	RoleGerente  = "GERENTE"
	RoleEmpleado = "EMPLEADO"
)

// Role agrupa permisos; un usuario tiene exactamente un rol.
type Role struct {
	ID          string
	Name        string
	Description string
}

// IsSystemRole indica si name es uno de los roles predefinidos.
func IsSystemRole(name string) bool {
	switch name {
	case RoleAdmin, RoleGerente, RoleEmpleado:
		return true
	}
	return false
}
