package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
)

func TestDecodeAlert_SobreDeAlerta(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	alert := inventory.StockAlert{
		ProductID:   "p-1",
		ProductName: "Widget",
		StockActual: 5,
		StockMinimo: 10,
		MovementID:  "m-1",
		OccurredAt:  at,
	}
	raw, err := encode(TypeStockAlert, at, alert)
	require.NoError(t, err)

	got, err := DecodeAlert(raw)
	require.NoError(t, err)
	assert.Equal(t, alert, got)
}

func TestDecodeAlert_RechazaOtrosTipos(t *testing.T) {
	raw, err := encode(TypeMovementRecorded, time.Now(), MovementRecorded{MovementID: "m-1"})
	require.NoError(t, err)

	_, err = DecodeAlert(raw)
	assert.Error(t, err)

	_, err = DecodeAlert([]byte("{no-json"))
	assert.Error(t, err)
}
