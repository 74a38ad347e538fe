package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// StockActual es un saldo desnormalizado: solo el motor de movimientos lo modifica.
type Product struct {
	ID          string
	Name        string // único
	Description string
	Price       decimal.Decimal
	StockActual int
	StockMinimo int // umbral de reposición
	CategoryID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
