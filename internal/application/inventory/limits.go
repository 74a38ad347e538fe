package inventory

import "time"

// Limits agrupa los límites de negocio del motor. Se construye desde la configuración
// y se pasa explícitamente a los casos de uso.
type Limits struct {
	MinQuantity     int
	MaxQuantity     int
	MaxReasonLength int
	// MaxStockMinimo tope blando para el umbral de reposición de un producto.
	MaxStockMinimo int
	// StatsMaxRange rango máximo permitido entre inicio y fin en las estadísticas.
	StatsMaxRange   time.Duration
	TopMovedDefault int
	TopMovedMax     int
	// Timeout de la transacción de un movimiento (ruta caliente con contención por producto).
	Timeout time.Duration
	// PublishTimeout tope para publicar los eventos de un movimiento ya confirmado.
	PublishTimeout time.Duration
}

// DefaultLimits devuelve los límites por defecto.
func DefaultLimits() Limits {
	return Limits{
		MinQuantity:     1,
		MaxQuantity:     100000,
		MaxReasonLength: 255,
		MaxStockMinimo:  1000000,
		StatsMaxRange:   365 * 24 * time.Hour,
		TopMovedDefault: 10,
		TopMovedMax:     100,
		Timeout:         3 * time.Second,
		PublishTimeout:  time.Second,
	}
}
