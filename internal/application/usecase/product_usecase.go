package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

const maxProductNameLength = 150

var maxPrice = decimal.RequireFromString("99999999.99")

// ProductUseCase casos de uso CRUD para productos. El stock actual solo cambia vía movimientos:
// el stock inicial se registra como una ENTRADA dentro de la misma transacción que el alta.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	txRunner   inventory.TxRunner
	engine     *inventory.RegisterMovementUseCase
	limits     inventory.Limits
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	txRunner inventory.TxRunner,
	engine *inventory.RegisterMovementUseCase,
	limits inventory.Limits,
) *ProductUseCase {
	return &ProductUseCase{
		repo:       repo,
		categories: categories,
		txRunner:   txRunner,
		engine:     engine,
		limits:     limits,
		now:        time.Now,
	}
}

// Create crea un producto. Si StockInicial > 0 registra la ENTRADA inicial a nombre de actingUserID.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, actingUserID string) (*dto.ProductResponse, error) {
	in.Nombre = strings.TrimSpace(in.Nombre)
	fields := map[string]string{}
	validateName(fields, in.Nombre)
	validatePrice(fields, in.Precio)
	uc.validateStockMinimo(fields, in.StockMinimo)
	if in.StockInicial < 0 || in.StockInicial > uc.limits.MaxQuantity {
		fields["stockInicial"] = rangeRule(0, uc.limits.MaxQuantity)
	}
	if _, err := uuid.Parse(in.CategoriaID); err != nil {
		fields["categoriaId"] = "uuid"
	}
	if len(fields) > 0 {
		return nil, domain.InvalidFields(fields)
	}

	if err := uc.requireCategory(ctx, in.CategoriaID); err != nil {
		return nil, err
	}
	taken, err := uc.repo.ExistsByName(ctx, in.Nombre)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("PRODUCT_NAME_TAKEN", "ya existe un producto con ese nombre")
	}

	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Nombre,
		Description: in.Descripcion,
		Price:       in.Precio,
		StockMinimo: in.StockMinimo,
		CategoryID:  in.CategoriaID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var initial *inventory.MovementResult
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.StockInicial == 0 {
			return nil
		}
		res, err := uc.engine.RegisterInitialStockInTx(ctx, movRepo, productRepo, product.ID, actingUserID, in.StockInicial)
		if err != nil {
			return err
		}
		initial = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	if initial != nil {
		uc.engine.AfterCommit(ctx, initial)
		product = initial.Product
	}
	out := inventory.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := inventory.ToProductResponse(product)
	return &out, nil
}

// Update modifica los datos descriptivos del producto. Nunca toca el stock actual.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.Nombre != nil {
		*in.Nombre = strings.TrimSpace(*in.Nombre)
		validateName(fields, *in.Nombre)
	}
	if in.Precio != nil {
		validatePrice(fields, *in.Precio)
	}
	if in.StockMinimo != nil {
		uc.validateStockMinimo(fields, *in.StockMinimo)
	}
	if in.CategoriaID != nil {
		if _, err := uuid.Parse(*in.CategoriaID); err != nil {
			fields["categoriaId"] = "uuid"
		}
	}
	if len(fields) > 0 {
		return nil, domain.InvalidFields(fields)
	}

	if in.Nombre != nil && *in.Nombre != product.Name {
		other, err := uc.repo.GetByName(ctx, *in.Nombre)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != product.ID {
			return nil, domain.Conflict("PRODUCT_NAME_TAKEN", "ya existe un producto con ese nombre")
		}
		product.Name = *in.Nombre
	}
	if in.CategoriaID != nil && *in.CategoriaID != product.CategoryID {
		if err := uc.requireCategory(ctx, *in.CategoriaID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoriaID
	}
	if in.Descripcion != nil {
		product.Description = *in.Descripcion
	}
	if in.Precio != nil {
		product.Price = *in.Precio
	}
	if in.StockMinimo != nil {
		product.StockMinimo = *in.StockMinimo
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := inventory.ToProductResponse(product)
	return &out, nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, inventory.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto sin movimientos. Con historial devuelve Conflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	has, err := uc.repo.HasMovements(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return domain.Conflict("PRODUCT_HAS_MOVEMENTS", "el producto tiene movimientos registrados")
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) find(ctx context.Context, id string) (*entity.Product, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("PRODUCT_NOT_FOUND", "producto no encontrado")
	}
	return product, nil
}

func (uc *ProductUseCase) requireCategory(ctx context.Context, id string) error {
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return domain.NotFound("CATEGORY_NOT_FOUND", "la categoría no existe")
	}
	return nil
}

func (uc *ProductUseCase) validateStockMinimo(fields map[string]string, v int) {
	if v < 0 || v > uc.limits.MaxStockMinimo {
		fields["stockMinimo"] = rangeRule(0, uc.limits.MaxStockMinimo)
	}
}

func validateName(fields map[string]string, name string) {
	switch {
	case name == "":
		fields["nombre"] = "required"
	case utf8.RuneCountInString(name) > maxProductNameLength:
		fields["nombre"] = "max=150"
	}
}

// validatePrice: 0 <= precio <= 99999999.99 con a lo sumo dos decimales (NUMERIC(10,2)).
func validatePrice(fields map[string]string, price decimal.Decimal) {
	switch {
	case price.IsNegative():
		fields["precio"] = "min=0"
	case price.GreaterThan(maxPrice):
		fields["precio"] = "max=99999999.99"
	case !price.Equal(price.Truncate(2)):
		fields["precio"] = "decimals=2"
	}
}
