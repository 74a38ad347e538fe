package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación del puerto RoleRepository sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de roles.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO roles (id, nombre, descripcion) VALUES ($1, $2, $3)`,
		role.ID, role.Name, role.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ROLE_NAME_TAKEN", "ya existe un rol con ese nombre")
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.scanOne(ctx, `SELECT id, nombre, descripcion FROM roles WHERE id = $1`, id)
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.scanOne(ctx, `SELECT id, nombre, descripcion FROM roles WHERE nombre = $1`, name)
}

func (r *RoleRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE nombre = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists role: %w", err)
	}
	return exists, nil
}

func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	_, err := r.q.Exec(ctx,
		`UPDATE roles SET nombre = $2, descripcion = $3 WHERE id = $1`,
		role.ID, role.Name, role.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ROLE_NAME_TAKEN", "ya existe un rol con ese nombre")
		}
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, descripcion FROM roles ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}

func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("ROLE_HAS_USERS", "el rol tiene usuarios asignados")
		}
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

func (r *RoleRepo) scanOne(ctx context.Context, query string, arg any) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}
