package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, products repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products}
}

// Create crea una categoría con nombre único.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, domain.InvalidFields(map[string]string{"nombre": "required"})
	}
	taken, err := uc.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("CATEGORY_NAME_TAKEN", "ya existe una categoría con ese nombre")
	}
	cat := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Descripcion,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	out := toCategoryResponse(cat)
	return &out, nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	cat, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(cat)
	return &out, nil
}

// FindByName busca por nombre exacto; nil si no existe.
func (uc *CategoryUseCase) FindByName(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	cat, err := uc.repo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil || cat == nil {
		return nil, err
	}
	out := toCategoryResponse(cat)
	return &out, nil
}

// Update renombra o cambia la descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, domain.InvalidFields(map[string]string{"nombre": "required"})
	}
	if name != cat.Name {
		other, err := uc.repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != cat.ID {
			return nil, domain.Conflict("CATEGORY_NAME_TAKEN", "ya existe una categoría con ese nombre")
		}
	}
	cat.Name = name
	cat.Description = in.Descripcion
	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	out := toCategoryResponse(cat)
	return &out, nil
}

// List devuelve todas las categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Delete elimina la categoría si no tiene productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	n, err := uc.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict("CATEGORY_HAS_PRODUCTS", "la categoría tiene productos asociados")
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CategoryUseCase) find(ctx context.Context, id string) (*entity.Category, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	cat, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.NotFound("CATEGORY_NOT_FOUND", "categoría no encontrada")
	}
	return cat, nil
}
