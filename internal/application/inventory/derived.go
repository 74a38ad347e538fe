package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// Niveles de impacto de un movimiento según las unidades movidas.
const (
	ImpactoBajo  = "BAJO"
	ImpactoMedio = "MEDIO"
	ImpactoAlto  = "ALTO"
)

// ImpactLevel clasifica la cantidad: BAJO < 100, MEDIO < 1000, ALTO en otro caso.
func ImpactLevel(quantity int) string {
	switch {
	case quantity < 100:
		return ImpactoBajo
	case quantity < 1000:
		return ImpactoMedio
	default:
		return ImpactoAlto
	}
}

// ElapsedSince describe en español el tiempo transcurrido entre t y now.
func ElapsedSince(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "hace unos segundos"
	}
	if d < time.Hour {
		return plural(int(d/time.Minute), "minuto", "minutos")
	}
	if d < 24*time.Hour {
		return plural(int(d/time.Hour), "hora", "horas")
	}
	days := int(d / (24 * time.Hour))
	if days < 30 {
		return plural(days, "día", "días")
	}
	if days < 365 {
		return plural(days/30, "mes", "meses")
	}
	return plural(days/365, "año", "años")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("hace 1 %s", one)
	}
	return fmt.Sprintf("hace %d %s", n, many)
}

// MonetaryValue precio unitario por cantidad.
func MonetaryValue(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ToMovementResponse arma la respuesta con los campos derivados. product puede ser nil.
func ToMovementResponse(m *entity.Movement, product *entity.Product, now time.Time) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:                 m.ID,
		TipoMovimiento:     m.Type,
		Cantidad:           m.Quantity,
		Motivo:             m.Reason,
		ProductoID:         m.ProductID,
		UsuarioID:          m.UserID,
		Fecha:              m.CreatedAt,
		NivelImpacto:       ImpactLevel(m.Quantity),
		TiempoTranscurrido: ElapsedSince(m.CreatedAt, now),
		ValorMonetario:     decimal.Zero,
	}
	if product != nil {
		resp.ProductoNombre = product.Name
		resp.ValorMonetario = MonetaryValue(product.Price, m.Quantity)
		resp.EstadoStock = string(stock.StatusOf(product.StockActual, product.StockMinimo))
	}
	return resp
}

// ResultToResponse respuesta de un movimiento recién confirmado, con saldo anterior y resultante.
func ResultToResponse(res *MovementResult, now time.Time) dto.MovementResponse {
	resp := ToMovementResponse(res.Movement, res.Product, now)
	previous := res.PreviousStock
	resulting := res.Product.StockActual
	resp.StockAnterior = &previous
	resp.StockResultante = &resulting
	resp.AlertaStockBajo = res.LowStockAlert
	return resp
}

// ToProductResponse mapea un producto con su estado de stock derivado.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Precio:      p.Price,
		StockActual: p.StockActual,
		StockMinimo: p.StockMinimo,
		EstadoStock: string(stock.StatusOf(p.StockActual, p.StockMinimo)),
		CategoriaID: p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// requireID valida que id sea un UUID; field es el nombre del campo en la API.
func requireID(field, id string) error {
	if id == "" {
		return domain.InvalidFields(map[string]string{field: "required"})
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.InvalidFields(map[string]string{field: "uuid"})
	}
	return nil
}
