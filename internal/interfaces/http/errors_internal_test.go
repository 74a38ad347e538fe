package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func decodeError(t *testing.T, app *fiber.App) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler_MapeaKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.InvalidArgument("INVALID_RANGE", "x"), 400, "INVALID_RANGE"},
		{domain.NotFound("PRODUCT_NOT_FOUND", "x"), 404, "PRODUCT_NOT_FOUND"},
		{domain.InsufficientStock(5, 10), 409, "INSUFFICIENT_STOCK"},
		{domain.Conflict("CATEGORY_HAS_PRODUCTS", "x"), 409, "CATEGORY_HAS_PRODUCTS"},
		{&domain.Error{Kind: domain.KindUnauthorized, Message: "x"}, 401, "UNAUTHORIZED"},
		{&domain.Error{Kind: domain.KindForbidden, Code: "USER_INACTIVE"}, 403, "USER_INACTIVE"},
		{fiber.ErrNotFound, 404, "HTTP_404"},
	}
	for _, tc := range cases {
		status, body := decodeError(t, errorApp(tc.err))
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.status, body.Status)
		assert.Equal(t, tc.code, body.Code)
		assert.NotEmpty(t, body.Error)
		assert.False(t, body.Timestamp.IsZero())
	}
}

func TestStatusText_TextoEstandarHTTP(t *testing.T) {
	assert.Equal(t, "Conflict", statusText(409))
	assert.Equal(t, "Not Found", statusText(404))
	assert.Equal(t, "Internal Server Error", statusText(500))
	assert.Equal(t, "Error", statusText(999))

	_, body := decodeError(t, errorApp(domain.InsufficientStock(1, 2)))
	assert.Equal(t, "Conflict", body.Error)
}

func TestErrorHandler_InternoNoFiltraCausa(t *testing.T) {
	status, body := decodeError(t, errorApp(errors.New("pq: password authentication failed")))
	assert.Equal(t, 500, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "password")

	status, body = decodeError(t, errorApp(domain.Internal("MOVEMENT_TIMEOUT", errors.New("deadline"))))
	assert.Equal(t, 500, status)
	assert.Equal(t, "MOVEMENT_TIMEOUT", body.Code)
	assert.NotContains(t, body.Message, "deadline")
}

func TestValidateStruct_CamposConNombreJSON(t *testing.T) {
	err := validateStruct(&dto.RegisterMovementRequest{ProductoID: "x", Cantidad: 0, TipoMovimiento: "AJUSTE"})
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "uuid", de.Fields["productoId"])
	assert.Equal(t, "min=1", de.Fields["cantidad"])
	assert.Equal(t, "oneof=ENTRADA SALIDA", de.Fields["tipoMovimiento"])

	err = validateStruct(&dto.RegisterMovementRequest{ProductoID: "1f0c6b0e-3f4a-4c7e-9a63-2b7f5c1d9e10", Cantidad: 100001})
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "max=100000", de.Fields["cantidad"])
}

func TestValidateStruct_PrecioDecimal(t *testing.T) {
	req := dto.CreateProductRequest{
		Nombre:      "Widget",
		Precio:      decimal.RequireFromString("-0.01"),
		CategoriaID: "1f0c6b0e-3f4a-4c7e-9a63-2b7f5c1d9e10",
	}
	err := validateStruct(&req)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "min=0", de.Fields["precio"])

	req.Precio = decimal.RequireFromString("10.50")
	assert.NoError(t, validateStruct(&req))
}

func TestQueryTime(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error {
		start, err := queryTime(c, "inicio", true, false)
		if err != nil {
			return err
		}
		end, err := queryTime(c, "fin", true, true)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"inicio": start, "fin": end})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?inicio=2025-01-01&fin=2025-01-31", nil), -1)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-01-01T00:00:00Z", body["inicio"])
	assert.Equal(t, "2025-01-31T23:59:59.999999999Z", body["fin"])

	resp, err = app.Test(httptest.NewRequest("GET", "/?inicio=2025-01-01T10:00:00Z&fin=ayer", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?fin=2025-01-31", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
