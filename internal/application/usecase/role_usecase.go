package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// RoleUseCase gestiona roles. Los roles del sistema no se renombran ni se eliminan.
type RoleUseCase struct {
	repo  repository.RoleRepository
	users repository.UserRepository
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository, users repository.UserRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo, users: users}
}

// Create crea un rol personalizado. El nombre se normaliza a mayúsculas.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	name := normalizeRoleName(in.Nombre)
	if name == "" {
		return nil, domain.InvalidFields(map[string]string{"nombre": "required"})
	}
	taken, err := uc.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("ROLE_NAME_TAKEN", "ya existe un rol con ese nombre")
	}
	role := &entity.Role{ID: uuid.New().String(), Name: name, Description: in.Descripcion}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	out := toRoleResponse(role)
	return &out, nil
}

// GetByID obtiene un rol por ID.
func (uc *RoleUseCase) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toRoleResponse(role)
	return &out, nil
}

// Update cambia nombre y descripción. Un rol del sistema solo admite cambiar la descripción.
func (uc *RoleUseCase) Update(ctx context.Context, id string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	name := normalizeRoleName(in.Nombre)
	if name == "" {
		return nil, domain.InvalidFields(map[string]string{"nombre": "required"})
	}
	if name != role.Name {
		if entity.IsSystemRole(role.Name) {
			return nil, domain.Conflict("SYSTEM_ROLE", "los roles del sistema no se pueden renombrar")
		}
		taken, err := uc.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("ROLE_NAME_TAKEN", "ya existe un rol con ese nombre")
		}
	}
	role.Name = name
	role.Description = in.Descripcion
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	out := toRoleResponse(role)
	return &out, nil
}

// List devuelve todos los roles.
func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

// Delete elimina un rol personalizado sin usuarios asignados.
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	role, err := uc.find(ctx, id)
	if err != nil {
		return err
	}
	if entity.IsSystemRole(role.Name) {
		return domain.Conflict("SYSTEM_ROLE", "los roles del sistema no se pueden eliminar")
	}
	n, err := uc.users.CountByRole(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict("ROLE_HAS_USERS", "el rol tiene usuarios asignados")
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *RoleUseCase) find(ctx context.Context, id string) (*entity.Role, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.NotFound("ROLE_NOT_FOUND", "rol no encontrado")
	}
	return role, nil
}

func normalizeRoleName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
