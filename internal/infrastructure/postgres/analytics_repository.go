package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura sobre movimientos.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetProductTotals suma entradas y salidas de un producto en una sola pasada.
func (r *AnalyticsRepo) GetProductTotals(ctx context.Context, productID string) (repository.ProductTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(cantidad) FILTER (WHERE tipo_movimiento = 'ENTRADA'), 0) AS entradas,
	    COALESCE(SUM(cantidad) FILTER (WHERE tipo_movimiento = 'SALIDA'),  0) AS salidas,
	    COUNT(*)                                                               AS movimientos
	FROM movimientos
	WHERE producto_id = $1`

	var t repository.ProductTotals
	if err := r.q.QueryRow(ctx, query, productID).Scan(&t.Entradas, &t.Salidas, &t.MovementCount); err != nil {
		return t, fmt.Errorf("analytics.GetProductTotals: %w", err)
	}
	return t, nil
}

// GetStatsByType agrupa por tipo los movimientos con fecha en [start, end].
func (r *AnalyticsRepo) GetStatsByType(ctx context.Context, start, end time.Time) ([]repository.TypeStats, error) {
	const query = `
	SELECT tipo_movimiento, COUNT(*), COALESCE(SUM(cantidad), 0)
	FROM movimientos
	WHERE fecha BETWEEN $1 AND $2
	GROUP BY tipo_movimiento`

	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetStatsByType: %w", err)
	}
	defer rows.Close()

	var results []repository.TypeStats
	for rows.Next() {
		var row repository.TypeStats
		if err := rows.Scan(&row.Type, &row.Count, &row.Quantity); err != nil {
			return nil, fmt.Errorf("analytics.GetStatsByType scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetTopMovedProducts ranking por número de movimientos. Los empates quedan en el orden del motor.
func (r *AnalyticsRepo) GetTopMovedProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.ProductMovementCount, error) {
	const query = `
	SELECT
	    p.id,
	    p.nombre,
	    COUNT(m.id)                                                             AS movimientos,
	    COALESCE(SUM(m.cantidad) FILTER (WHERE m.tipo_movimiento = 'ENTRADA'), 0) AS entradas,
	    COALESCE(SUM(m.cantidad) FILTER (WHERE m.tipo_movimiento = 'SALIDA'),  0) AS salidas
	FROM movimientos m
	JOIN productos   p ON p.id = m.producto_id
	WHERE m.fecha BETWEEN $1 AND $2
	GROUP BY p.id, p.nombre
	ORDER BY movimientos DESC
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopMovedProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductMovementCount
	for rows.Next() {
		var row repository.ProductMovementCount
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.MovementCount, &row.Entradas, &row.Salidas); err != nil {
			return nil, fmt.Errorf("analytics.GetTopMovedProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
