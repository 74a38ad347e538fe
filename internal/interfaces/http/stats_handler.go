package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
)

// StatsHandler expone las consultas agregadas de solo lectura.
type StatsHandler struct {
	uc *inventory.AggregationUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *inventory.AggregationUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// ProductSummary godoc
// @Summary      Resumen de un producto
// @Description  Totales del libro, stock calculado frente a stock almacenado y estado.
// @Tags         estadisticas
// @Security     Bearer
// @Produce      json
// @Param        productoId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductSummaryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/resumen-producto/{productoId} [get]
func (h *StatsHandler) ProductSummary(c *fiber.Ctx) error {
	out, err := h.uc.ProductSummary(c.UserContext(), c.Params("productoId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Period godoc
// @Summary      Estadísticas por tipo en un período
// @Tags         estadisticas
// @Security     Bearer
// @Produce      json
// @Param        inicio  query  string  true  "RFC3339 o AAAA-MM-DD"
// @Param        fin     query  string  true  "RFC3339 o AAAA-MM-DD (inclusive)"
// @Success      200  {object}  dto.PeriodStatsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos/estadisticas [get]
func (h *StatsHandler) Period(c *fiber.Ctx) error {
	start, err := queryTime(c, "inicio", true, false)
	if err != nil {
		return err
	}
	end, err := queryTime(c, "fin", true, true)
	if err != nil {
		return err
	}
	out, err := h.uc.StatsForPeriod(c.UserContext(), *start, *end)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// TopMoved godoc
// @Summary      Productos más movidos
// @Description  Ordenados por cantidad de movimientos; el orden entre empates no está definido.
// @Tags         estadisticas
// @Security     Bearer
// @Produce      json
// @Param        inicio  query  string  true   "RFC3339 o AAAA-MM-DD"
// @Param        fin     query  string  true   "RFC3339 o AAAA-MM-DD (inclusive)"
// @Param        limite  query  int     false  "Por defecto 10, máximo 100"
// @Success      200  {array}   dto.TopMovedProductDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos/productos-mas-movidos [get]
func (h *StatsHandler) TopMoved(c *fiber.Ctx) error {
	start, err := queryTime(c, "inicio", true, false)
	if err != nil {
		return err
	}
	end, err := queryTime(c, "fin", true, true)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limite", 0)
	if err != nil {
		return err
	}
	out, err := h.uc.TopMovedProducts(c.UserContext(), *start, *end, limit)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/productos/stock-bajo [get]
func (h *StatsHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStockProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CriticalStock godoc
// @Summary      Productos con stock crítico
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/productos/stock-critico [get]
func (h *StatsHandler) CriticalStock(c *fiber.Ctx) error {
	out, err := h.uc.CriticalStockProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
