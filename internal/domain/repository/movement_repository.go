package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos.
type MovementFilter struct {
	ProductID string
	UserID    string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto del libro de movimientos. Es append-only:
// no existen Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// SumQuantity suma las cantidades de un tipo (ENTRADA/SALIDA) para un producto.
	SumQuantity(ctx context.Context, productID, movementType string) (int, error)
	ExistsByUser(ctx context.Context, userID string) (bool, error)
}
