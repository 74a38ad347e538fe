package usecase

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func checkID(field, id string) error {
	if id == "" {
		return domain.InvalidFields(map[string]string{field: "required"})
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.InvalidFields(map[string]string{field: "uuid"})
	}
	return nil
}

func rangeRule(lo, hi int) string {
	return "min=" + strconv.Itoa(lo) + ",max=" + strconv.Itoa(hi)
}

// ToUserResponse mapea un usuario sin exponer el hash de la contraseña.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		NombreCompleto: u.FullName,
		Email:          u.Email,
		Activo:         u.Active,
		RolID:          u.RoleID,
		Rol:            u.RoleName,
		CreatedAt:      u.CreatedAt,
	}
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Nombre:      c.Name,
		Descripcion: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func toRoleResponse(r *entity.Role) dto.RoleResponse {
	return dto.RoleResponse{
		ID:          r.ID,
		Nombre:      r.Name,
		Descripcion: r.Description,
		Sistema:     entity.IsSystemRole(r.Name),
	}
}
