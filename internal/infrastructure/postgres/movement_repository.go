package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, tipo_movimiento, cantidad, motivo, producto_id, usuario_id, fecha`

// MovementRepo libro de movimientos sobre PostgreSQL (append-only).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento. La fecha la asigna el motor dentro de la transacción.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movimientos (` + movementColumns + `)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.Quantity, m.Reason, m.ProductID, m.UserID, m.CreatedAt,
	)
	if err != nil {
		if cerr := constraintError(err,
			"MOVEMENT_DUPLICATE", "movimiento duplicado",
			"MOVEMENT_REFERENCE", "el producto o el usuario no existe",
		); cerr != nil {
			return cerr
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var m entity.Movement
	err := r.q.QueryRow(ctx,
		`SELECT id, tipo_movimiento, cantidad, COALESCE(motivo, ''), producto_id, usuario_id, fecha
		 FROM movimientos WHERE id = $1`, id,
	).Scan(&m.ID, &m.Type, &m.Quantity, &m.Reason, &m.ProductID, &m.UserID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// List filtra por producto, usuario, tipo y rango de fechas; orden descendente por fecha.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("producto_id = $%d", f.ProductID)
	}
	if f.UserID != "" {
		add("usuario_id = $%d", f.UserID)
	}
	if f.Type != "" {
		add("tipo_movimiento = $%d", f.Type)
	}
	if f.From != nil {
		add("fecha >= $%d", *f.From)
	}
	if f.To != nil {
		add("fecha <= $%d", *f.To)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, tipo_movimiento, cantidad, COALESCE(motivo, ''), producto_id, usuario_id, fecha FROM movimientos`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	args = append(args, f.Limit, f.Offset)
	fmt.Fprintf(&sb, " ORDER BY fecha DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.Type, &m.Quantity, &m.Reason, &m.ProductID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumQuantity suma las cantidades de un tipo para un producto (0 si no hay movimientos).
func (r *MovementRepo) SumQuantity(ctx context.Context, productID, movementType string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(cantidad), 0) FROM movimientos WHERE producto_id = $1 AND tipo_movimiento = $2`,
		productID, movementType,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}

// ExistsByUser indica si el usuario registró algún movimiento.
func (r *MovementRepo) ExistsByUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM movimientos WHERE usuario_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("movements by user: %w", err)
	}
	return exists, nil
}
