package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movimientos, /entrada y /salida.
// UsuarioID es opcional: si viene vacío se usa el usuario del token.
type RegisterMovementRequest struct {
	ProductoID     string `json:"productoId" validate:"required,uuid"`
	UsuarioID      string `json:"usuarioId,omitempty" validate:"omitempty,uuid"`
	TipoMovimiento string `json:"tipoMovimiento,omitempty" validate:"omitempty,oneof=ENTRADA SALIDA"`
	Cantidad       int    `json:"cantidad" validate:"min=1,max=100000"`
	Motivo         string `json:"motivo,omitempty" validate:"max=255"`
}

// MovementResponse movimiento con sus campos derivados.
type MovementResponse struct {
	ID                 string          `json:"id"`
	TipoMovimiento     string          `json:"tipoMovimiento"`
	Cantidad           int             `json:"cantidad"`
	Motivo             string          `json:"motivo,omitempty"`
	ProductoID         string          `json:"productoId"`
	ProductoNombre     string          `json:"productoNombre,omitempty"`
	UsuarioID          string          `json:"usuarioId"`
	Fecha              time.Time       `json:"fecha"`
	NivelImpacto       string          `json:"nivelImpacto"`
	TiempoTranscurrido string          `json:"tiempoTranscurrido"`
	ValorMonetario     decimal.Decimal `json:"valorMonetario"`
	StockAnterior      *int            `json:"stockAnterior,omitempty"`
	StockResultante    *int            `json:"stockResultante,omitempty"`
	EstadoStock        string          `json:"estadoStock,omitempty"`
	AlertaStockBajo    bool            `json:"alertaStockBajo"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ProductSummaryDTO compara el stock calculado desde el libro con el stock almacenado.
type ProductSummaryDTO struct {
	ProductoID       string `json:"productoId"`
	ProductoNombre   string `json:"productoNombre"`
	TotalEntradas    int    `json:"totalEntradas"`
	TotalSalidas     int    `json:"totalSalidas"`
	TotalMovimientos int    `json:"totalMovimientos"`
	StockCalculado   int    `json:"stockCalculado"`
	StockActual      int    `json:"stockActual"`
	StockMinimo      int    `json:"stockMinimo"`
	Consistente      bool   `json:"consistente"`
	EstadoStock      string `json:"estadoStock"`
}

// TypeStatsDTO conteo y unidades de un tipo de movimiento.
type TypeStatsDTO struct {
	Movimientos int `json:"movimientos"`
	Unidades    int `json:"unidades"`
}

// PeriodStatsDTO estadísticas de movimientos en [inicio, fin].
type PeriodStatsDTO struct {
	Inicio           time.Time    `json:"inicio"`
	Fin              time.Time    `json:"fin"`
	Entradas         TypeStatsDTO `json:"entradas"`
	Salidas          TypeStatsDTO `json:"salidas"`
	TotalMovimientos int          `json:"totalMovimientos"`
	BalanceNeto      int          `json:"balanceNeto"` // unidades entradas - salidas
}

// TopMovedProductDTO fila del ranking de productos más movidos.
type TopMovedProductDTO struct {
	Posicion         int    `json:"posicion"`
	ProductoID       string `json:"productoId"`
	ProductoNombre   string `json:"productoNombre"`
	TotalMovimientos int    `json:"totalMovimientos"`
	TotalEntradas    int    `json:"totalEntradas"`
	TotalSalidas     int    `json:"totalSalidas"`
}
