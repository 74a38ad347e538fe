package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetByName devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate lee la fila y la bloquea hasta el fin de la transacción (SELECT ... FOR UPDATE).
	// Solo tiene sentido con un repositorio atado a una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// Update modifica los datos descriptivos. Nunca toca stock_actual.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe el nuevo saldo; reservado al motor de movimientos.
	UpdateStock(ctx context.Context, id string, stockActual int) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ListByStatus(ctx context.Context, status stock.Status) ([]*entity.Product, error)
	HasMovements(ctx context.Context, id string) (bool, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	Delete(ctx context.Context, id string) error
}
