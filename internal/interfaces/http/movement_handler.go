package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP de movimientos (protegido).
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Entry godoc
// @Summary      Registrar entrada de stock
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "productoId, cantidad, motivo; usuarioId por defecto el del token"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movimientos/entrada [post]
func (h *MovementHandler) Entry(c *fiber.Ctx) error {
	return h.register(c, entity.MovementTypeEntrada)
}

// Exit godoc
// @Summary      Registrar salida de stock
// @Description  Falla con 409 INSUFFICIENT_STOCK si la cantidad supera el stock actual.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "productoId, cantidad, motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos/salida [post]
func (h *MovementHandler) Exit(c *fiber.Ctx) error {
	return h.register(c, entity.MovementTypeSalida)
}

// Create godoc
// @Summary      Registrar movimiento (tipo en el body)
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "tipoMovimiento ENTRADA|SALIDA"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	return h.register(c, "")
}

func (h *MovementHandler) register(c *fiber.Ctx, movementType string) error {
	var in dto.RegisterMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterFromRequest(c.UserContext(), in, movementType, GetUserID(c), GetRole(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        productoId  query  string  false  "Producto"
// @Param        usuarioId   query  string  false  "Usuario"
// @Param        tipo        query  string  false  "ENTRADA | SALIDA"
// @Param        inicio      query  string  false  "RFC3339 o AAAA-MM-DD"
// @Param        fin         query  string  false  "RFC3339 o AAAA-MM-DD"
// @Param        limit       query  int     false  "Máximo 100"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	from, err := queryTime(c, "inicio", false, false)
	if err != nil {
		return err
	}
	to, err := queryTime(c, "fin", false, true)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), repository.MovementFilter{
		ProductID: c.Query("productoId"),
		UserID:    c.Query("usuarioId"),
		Type:      c.Query("tipo"),
		From:      from,
		To:        to,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Historial de un producto
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        productoId  path   string  true   "ID del producto"
// @Param        limit       query  int     false  "Máximo 100"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/producto/{productoId} [get]
func (h *MovementHandler) ListByProduct(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ListByProduct(c.UserContext(), c.Params("productoId"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
