package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada = "ENTRADA"
	MovementTypeSalida  = "SALIDA"
)

// Movement es una entrada inmutable del libro de movimientos (append-only).
// CreatedAt lo asigna el servidor al persistir.
type Movement struct {
	ID        string
	Type      string // ENTRADA | SALIDA
	Quantity  int
	Reason    string
	ProductID string
	UserID    string
	CreatedAt time.Time
}

// IsValidMovementType indica si t es un tipo de movimiento soportado.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida
}

// Delta devuelve la variación de stock que aporta el movimiento.
func (m *Movement) Delta() int {
	if m.Type == MovementTypeSalida {
		return -m.Quantity
	}
	return m.Quantity
}
