package repository

import (
	"context"
	"time"
)

// ProductTotals totales del libro para un producto.
type ProductTotals struct {
	Entradas      int
	Salidas       int
	MovementCount int
}

// TypeStats conteo y cantidad acumulada de un tipo de movimiento en un período.
type TypeStats struct {
	Type     string
	Count    int
	Quantity int
}

// ProductMovementCount fila del ranking de productos más movidos.
type ProductMovementCount struct {
	ProductID     string
	ProductName   string
	MovementCount int
	Entradas      int
	Salidas       int
}

// AnalyticsRepository consultas agregadas de solo lectura sobre el libro de movimientos.
type AnalyticsRepository interface {
	GetProductTotals(ctx context.Context, productID string) (ProductTotals, error)

	// GetStatsByType agrupa por tipo los movimientos con created_at en [start, end].
	// Los tipos sin movimientos no aparecen en el resultado.
	GetStatsByType(ctx context.Context, start, end time.Time) ([]TypeStats, error)

	// GetTopMovedProducts ordena por cantidad de movimientos descendente.
	// El desempate no está definido: depende del orden que devuelva el motor SQL.
	GetTopMovedProducts(ctx context.Context, start, end time.Time, limit int) ([]ProductMovementCount, error)
}
