package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockAlert evento de dominio: una salida dejó el producto en o por debajo de su mínimo.
type StockAlert struct {
	ProductID   string    `json:"productoId"`
	ProductName string    `json:"productoNombre"`
	StockActual int       `json:"stockActual"`
	StockMinimo int       `json:"stockMinimo"`
	MovementID  string    `json:"movimientoId"`
	OccurredAt  time.Time `json:"fecha"`
}

// EventPublisher publica eventos de dominio después del commit.
// Un fallo de publicación nunca revierte el movimiento.
type EventPublisher interface {
	PublishMovementRecorded(ctx context.Context, movement *entity.Movement, stockResultante int) error
	PublishStockAlert(ctx context.Context, alert StockAlert) error
}

// ReadCache caché de consultas agregadas. Clear se invoca tras cada movimiento confirmado
// para que las lecturas repetidas sin escrituras intermedias devuelvan lo mismo que la BD.
//
// Clear avanza la generación. El caller toma Generation antes de leer la BD y la pasa a Set:
// si hubo un Clear entre medio el valor se descarta, porque puede ser anterior al commit.
type ReadCache interface {
	Get(key string) (any, bool)
	Generation() uint64
	Set(key string, value any, generation uint64)
	Clear()
}

type noopPublisher struct{}

func (noopPublisher) PublishMovementRecorded(context.Context, *entity.Movement, int) error {
	return nil
}
func (noopPublisher) PublishStockAlert(context.Context, StockAlert) error { return nil }

type noopCache struct{}

func (noopCache) Get(string) (any, bool)  { return nil, false }
func (noopCache) Generation() uint64      { return 0 }
func (noopCache) Set(string, any, uint64) {}
func (noopCache) Clear()                  {}
