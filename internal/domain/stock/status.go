package stock

// Status es el estado derivado del stock de un producto frente a su mínimo.
type Status string

const (
	StatusCritico Status = "CRITICO"
	StatusBajo    Status = "BAJO"
	StatusNormal  Status = "NORMAL"
)

// StatusOf es la única fuente de verdad de los umbrales de stock:
//
//	CRITICO si stockActual <= stockMinimo
//	BAJO    si stockActual <= stockMinimo * 1.5
//	NORMAL  en otro caso
//
// El factor 1.5 se evalúa en enteros (2*actual <= 3*minimo) para no depender de floats.
func StatusOf(stockActual, stockMinimo int) Status {
	if stockActual <= stockMinimo {
		return StatusCritico
	}
	if 2*stockActual <= 3*stockMinimo {
		return StatusBajo
	}
	return StatusNormal
}

// NeedsAlert indica si un saldo resultante debe disparar la alerta de stock bajo.
func NeedsAlert(stockActual, stockMinimo int) bool {
	return StatusOf(stockActual, stockMinimo) == StatusCritico
}
