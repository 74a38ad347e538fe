package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

const dateLayout = "2006-01-02"

// queryTime lee un parámetro de fecha en RFC3339 o AAAA-MM-DD. Con endOfDay una fecha
// sin hora se interpreta como el último instante de ese día (fin de rango inclusivo).
func queryTime(c *fiber.Ctx, name string, required, endOfDay bool) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			return nil, domain.InvalidFields(map[string]string{name: "required"})
		}
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, domain.InvalidFields(map[string]string{name: "datetime"})
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// queryInt lee un entero opcional; def si no viene.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidFields(map[string]string{name: "numeric"})
	}
	return n, nil
}

// pageFromQuery lee limit y offset y los valida.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	var err error
	if page.Limit, err = queryInt(c, "limit", 0); err != nil {
		return page, err
	}
	if page.Offset, err = queryInt(c, "offset", 0); err != nil {
		return page, err
	}
	if err := validateStruct(&page); err != nil {
		return page, err
	}
	return page, nil
}
