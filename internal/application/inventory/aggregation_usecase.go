package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// AggregationUseCase consultas agregadas sobre el libro. Nunca escribe.
// Estadísticas y ranking se cachean hasta el siguiente movimiento confirmado.
type AggregationUseCase struct {
	productRepo   repository.ProductRepository
	movRepo       repository.MovementRepository
	analyticsRepo repository.AnalyticsRepository
	cache         ReadCache
	limits        Limits
}

// NewAggregationUseCase construye el caso de uso. cache puede ser nil.
func NewAggregationUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	analyticsRepo repository.AnalyticsRepository,
	cache ReadCache,
	limits Limits,
) *AggregationUseCase {
	if cache == nil {
		cache = noopCache{}
	}
	return &AggregationUseCase{
		productRepo:   productRepo,
		movRepo:       movRepo,
		analyticsRepo: analyticsRepo,
		cache:         cache,
		limits:        limits,
	}
}

// SumEntries total de unidades que entraron al producto.
func (uc *AggregationUseCase) SumEntries(ctx context.Context, productID string) (int, error) {
	return uc.sum(ctx, productID, entity.MovementTypeEntrada)
}

// SumExits total de unidades que salieron del producto.
func (uc *AggregationUseCase) SumExits(ctx context.Context, productID string) (int, error) {
	return uc.sum(ctx, productID, entity.MovementTypeSalida)
}

func (uc *AggregationUseCase) sum(ctx context.Context, productID, movementType string) (int, error) {
	if _, err := uc.requireProduct(ctx, productID); err != nil {
		return 0, err
	}
	total, err := uc.movRepo.SumQuantity(ctx, productID, movementType)
	if err != nil {
		return 0, domain.Internal("AGGREGATION_FAILED", err)
	}
	return total, nil
}

// ProductSummary compara el saldo calculado desde el libro con el almacenado.
// Es una herramienta de auditoría: no corrige nada.
func (uc *AggregationUseCase) ProductSummary(ctx context.Context, productID string) (*dto.ProductSummaryDTO, error) {
	p, err := uc.requireProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	totals, err := uc.analyticsRepo.GetProductTotals(ctx, productID)
	if err != nil {
		return nil, domain.Internal("AGGREGATION_FAILED", err)
	}
	calculated := totals.Entradas - totals.Salidas
	return &dto.ProductSummaryDTO{
		ProductoID:       p.ID,
		ProductoNombre:   p.Name,
		TotalEntradas:    totals.Entradas,
		TotalSalidas:     totals.Salidas,
		TotalMovimientos: totals.MovementCount,
		StockCalculado:   calculated,
		StockActual:      p.StockActual,
		StockMinimo:      p.StockMinimo,
		Consistente:      calculated == p.StockActual,
		EstadoStock:      string(stock.StatusOf(p.StockActual, p.StockMinimo)),
	}, nil
}

// StatsForPeriod cuenta movimientos y unidades por tipo con fecha en [start, end].
func (uc *AggregationUseCase) StatsForPeriod(ctx context.Context, start, end time.Time) (*dto.PeriodStatsDTO, error) {
	if err := uc.validateRange(start, end); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("stats:%d:%d", start.UnixNano(), end.UnixNano())
	if v, ok := uc.cache.Get(key); ok {
		if cached, ok := v.(*dto.PeriodStatsDTO); ok {
			out := *cached
			return &out, nil
		}
	}
	gen := uc.cache.Generation()

	rows, err := uc.analyticsRepo.GetStatsByType(ctx, start, end)
	if err != nil {
		return nil, domain.Internal("AGGREGATION_FAILED", err)
	}
	out := &dto.PeriodStatsDTO{Inicio: start, Fin: end}
	for _, r := range rows {
		switch r.Type {
		case entity.MovementTypeEntrada:
			out.Entradas = dto.TypeStatsDTO{Movimientos: r.Count, Unidades: r.Quantity}
		case entity.MovementTypeSalida:
			out.Salidas = dto.TypeStatsDTO{Movimientos: r.Count, Unidades: r.Quantity}
		}
	}
	out.TotalMovimientos = out.Entradas.Movimientos + out.Salidas.Movimientos
	out.BalanceNeto = out.Entradas.Unidades - out.Salidas.Unidades

	cached := *out
	uc.cache.Set(key, &cached, gen)
	return out, nil
}

// TopMovedProducts ranking por cantidad de movimientos en [start, end]. limit <= 0 usa el
// valor por defecto. El orden entre productos empatados no está definido.
func (uc *AggregationUseCase) TopMovedProducts(ctx context.Context, start, end time.Time, limit int) ([]dto.TopMovedProductDTO, error) {
	if err := uc.validateRange(start, end); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = uc.limits.TopMovedDefault
	}
	if limit > uc.limits.TopMovedMax {
		return nil, domain.InvalidFields(map[string]string{"limite": fmt.Sprintf("max=%d", uc.limits.TopMovedMax)})
	}
	key := fmt.Sprintf("top:%d:%d:%d", start.UnixNano(), end.UnixNano(), limit)
	if v, ok := uc.cache.Get(key); ok {
		if cached, ok := v.([]dto.TopMovedProductDTO); ok {
			return append([]dto.TopMovedProductDTO(nil), cached...), nil
		}
	}
	gen := uc.cache.Generation()

	rows, err := uc.analyticsRepo.GetTopMovedProducts(ctx, start, end, limit)
	if err != nil {
		return nil, domain.Internal("AGGREGATION_FAILED", err)
	}
	out := make([]dto.TopMovedProductDTO, 0, len(rows))
	for i, r := range rows {
		out = append(out, dto.TopMovedProductDTO{
			Posicion:         i + 1,
			ProductoID:       r.ProductID,
			ProductoNombre:   r.ProductName,
			TotalMovimientos: r.MovementCount,
			TotalEntradas:    r.Entradas,
			TotalSalidas:     r.Salidas,
		})
	}
	uc.cache.Set(key, append([]dto.TopMovedProductDTO(nil), out...), gen)
	return out, nil
}

// LowStockProducts productos en estado BAJO.
func (uc *AggregationUseCase) LowStockProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	return uc.byStatus(ctx, stock.StatusBajo)
}

// CriticalStockProducts productos en estado CRITICO.
func (uc *AggregationUseCase) CriticalStockProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	return uc.byStatus(ctx, stock.StatusCritico)
}

func (uc *AggregationUseCase) byStatus(ctx context.Context, status stock.Status) ([]dto.ProductResponse, error) {
	list, err := uc.productRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, domain.Internal("PRODUCT_LIST", err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToProductResponse(p))
	}
	return out, nil
}

func (uc *AggregationUseCase) validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.InvalidArgument("INVALID_RANGE", "inicio y fin son obligatorios")
	}
	if end.Before(start) {
		return domain.InvalidArgument("INVALID_RANGE", "la fecha fin es anterior a la fecha inicio")
	}
	if uc.limits.StatsMaxRange > 0 && end.Sub(start) > uc.limits.StatsMaxRange {
		return domain.InvalidArgument("RANGE_TOO_LARGE", "el rango no puede superar 365 días")
	}
	return nil
}

func (uc *AggregationUseCase) requireProduct(ctx context.Context, productID string) (*entity.Product, error) {
	if err := requireID("productoId", productID); err != nil {
		return nil, err
	}
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, domain.Internal("PRODUCT_READ", err)
	}
	if p == nil {
		return nil, domain.NotFound("PRODUCT_NOT_FOUND", "producto no encontrado")
	}
	return p, nil
}
