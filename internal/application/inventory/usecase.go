package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// MovementUseCase expone el motor y las lecturas del libro con DTOs de la API.
type MovementUseCase struct {
	engine      *RegisterMovementUseCase
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	engine *RegisterMovementUseCase,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) *MovementUseCase {
	return &MovementUseCase{
		engine:      engine,
		movRepo:     movRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// RegisterFromRequest registra un movimiento desde el body HTTP.
// movementType fija el tipo (rutas /entrada y /salida); vacío usa req.TipoMovimiento.
// actingUserID es el usuario autenticado, usado cuando req.UsuarioID viene vacío.
// Solo ADMIN y GERENTE pueden registrar a nombre de otro usuario.
func (uc *MovementUseCase) RegisterFromRequest(
	ctx context.Context,
	req dto.RegisterMovementRequest,
	movementType, actingUserID, actingRole string,
) (*dto.MovementResponse, error) {
	in := MovementInput{
		ProductID: req.ProductoID,
		UserID:    req.UsuarioID,
		Type:      req.TipoMovimiento,
		Quantity:  req.Cantidad,
		Reason:    req.Motivo,
	}
	if in.UserID == "" {
		in.UserID = actingUserID
	}
	if in.UserID != actingUserID && !canActForOthers(actingRole) {
		return nil, &domain.Error{
			Kind:    domain.KindForbidden,
			Code:    "USER_MISMATCH",
			Message: "solo ADMIN o GERENTE pueden registrar movimientos a nombre de otro usuario",
		}
	}

	var (
		res *MovementResult
		err error
	)
	switch movementType {
	case entity.MovementTypeEntrada:
		res, err = uc.engine.CreateEntry(ctx, in)
	case entity.MovementTypeSalida:
		res, err = uc.engine.CreateExit(ctx, in)
	default:
		res, err = uc.engine.CreateMovement(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	resp := ResultToResponse(res, uc.now())
	return &resp, nil
}

// GetByID devuelve un movimiento con sus campos derivados.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("MOVEMENT_READ", err)
	}
	if m == nil {
		return nil, domain.NotFound("MOVEMENT_NOT_FOUND", "movimiento no encontrado")
	}
	product, err := uc.productRepo.GetByID(ctx, m.ProductID)
	if err != nil {
		return nil, domain.Internal("PRODUCT_READ", err)
	}
	resp := ToMovementResponse(m, product, uc.now())
	return &resp, nil
}

// List devuelve los movimientos que cumplen el filtro, del más reciente al más antiguo.
func (uc *MovementUseCase) List(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.ProductID != "" {
		if err := requireID("productoId", filter.ProductID); err != nil {
			return nil, err
		}
	}
	if filter.UserID != "" {
		if err := requireID("usuarioId", filter.UserID); err != nil {
			return nil, err
		}
	}
	if filter.Type != "" && !entity.IsValidMovementType(filter.Type) {
		return nil, domain.InvalidFields(map[string]string{"tipo": "oneof=ENTRADA SALIDA"})
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.InvalidArgument("INVALID_RANGE", "la fecha fin es anterior a la fecha inicio")
	}
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	list, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.Internal("MOVEMENT_LIST", err)
	}

	now := uc.now()
	products := make(map[string]*entity.Product)
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		p, ok := products[m.ProductID]
		if !ok {
			p, err = uc.productRepo.GetByID(ctx, m.ProductID)
			if err != nil {
				return nil, domain.Internal("PRODUCT_READ", err)
			}
			products[m.ProductID] = p
		}
		items = append(items, ToMovementResponse(m, p, now))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListByProduct lista los movimientos de un producto existente.
func (uc *MovementUseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
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
	return uc.List(ctx, repository.MovementFilter{ProductID: productID, Limit: page.Limit, Offset: page.Offset})
}

func canActForOthers(role string) bool {
	return role == entity.RoleAdmin || role == entity.RoleGerente
}
