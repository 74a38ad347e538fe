package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// StockInicial > 0 se registra como una ENTRADA en el libro, nunca como escritura directa.
type CreateProductRequest struct {
	Nombre       string          `json:"nombre" validate:"required,min=1,max=150"`
	Descripcion  string          `json:"descripcion" validate:"max=1000"`
	Precio       decimal.Decimal `json:"precio" validate:"min=0,max=99999999.99"`
	StockInicial int             `json:"stockInicial" validate:"min=0,max=100000"`
	StockMinimo  int             `json:"stockMinimo" validate:"min=0,max=1000000"`
	CategoriaID  string          `json:"categoriaId" validate:"required,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock actual).
type UpdateProductRequest struct {
	Nombre      *string          `json:"nombre" validate:"omitempty,min=1,max=150"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=1000"`
	Precio      *decimal.Decimal `json:"precio" validate:"omitempty"`
	StockMinimo *int             `json:"stockMinimo" validate:"omitempty,min=0,max=1000000"`
	CategoriaID *string          `json:"categoriaId" validate:"omitempty,uuid"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	StockActual int             `json:"stockActual"`
	StockMinimo int             `json:"stockMinimo"`
	EstadoStock string          `json:"estadoStock"`
	CategoriaID string          `json:"categoriaId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
