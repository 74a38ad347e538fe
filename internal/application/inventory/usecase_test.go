package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// ─── Campos derivados ────────────────────────────────────────────────────────

func TestImpactLevel(t *testing.T) {
	assert.Equal(t, "BAJO", inventory.ImpactLevel(1))
	assert.Equal(t, "BAJO", inventory.ImpactLevel(99))
	assert.Equal(t, "MEDIO", inventory.ImpactLevel(100))
	assert.Equal(t, "MEDIO", inventory.ImpactLevel(999))
	assert.Equal(t, "ALTO", inventory.ImpactLevel(1000))
}

func TestElapsedSince(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "hace unos segundos"},
		{time.Minute, "hace 1 minuto"},
		{45 * time.Minute, "hace 45 minutos"},
		{3 * time.Hour, "hace 3 horas"},
		{24 * time.Hour, "hace 1 día"},
		{5 * 24 * time.Hour, "hace 5 días"},
		{60 * 24 * time.Hour, "hace 2 meses"},
		{800 * 24 * time.Hour, "hace 2 años"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inventory.ElapsedSince(now.Add(-tc.ago), now))
	}
}

func TestToMovementResponse_ValorMonetario(t *testing.T) {
	m := &entity.Movement{ID: "m1", Type: entity.MovementTypeSalida, Quantity: 4, CreatedAt: time.Now()}
	p := &entity.Product{Name: "Lápiz", Price: decimal.RequireFromString("1.25"), StockActual: 3, StockMinimo: 5}

	resp := inventory.ToMovementResponse(m, p, time.Now())
	assert.True(t, decimal.RequireFromString("5.00").Equal(resp.ValorMonetario))
	assert.Equal(t, "Lápiz", resp.ProductoNombre)
	assert.Equal(t, "CRITICO", resp.EstadoStock)
	assert.Nil(t, resp.StockResultante)
}

// ─── MovementUseCase ─────────────────────────────────────────────────────────

func newMovementUseCase(f *engineFixture) *inventory.MovementUseCase {
	return inventory.NewMovementUseCase(f.engine, &memMovementRepo{s: f.store}, &memProductRepo{s: f.store})
}

func TestMovementUseCase_UsuarioPorDefectoDelToken(t *testing.T) {
	f := newEngineFixture()
	uc := newMovementUseCase(f)
	p := f.store.addProduct("Brocha", 0, 0, "4.00")

	req := dto.RegisterMovementRequest{ProductoID: p.ID, Cantidad: 250, Motivo: "compra"}
	resp, err := uc.RegisterFromRequest(context.Background(), req, entity.MovementTypeEntrada, f.user.ID, entity.RoleEmpleado)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, resp.UsuarioID)
	assert.Equal(t, "MEDIO", resp.NivelImpacto)
	assert.True(t, decimal.NewFromInt(1000).Equal(resp.ValorMonetario))
	require.NotNil(t, resp.StockResultante)
	assert.Equal(t, 250, *resp.StockResultante)
	assert.Equal(t, 0, *resp.StockAnterior)
	assert.Equal(t, "NORMAL", resp.EstadoStock)
}

func TestMovementUseCase_TipoDelBody(t *testing.T) {
	f := newEngineFixture()
	uc := newMovementUseCase(f)
	p := f.store.addProduct("Rodillo", 0, 0, "1")

	req := dto.RegisterMovementRequest{ProductoID: p.ID, UsuarioID: f.user.ID, TipoMovimiento: "SALIDA", Cantidad: 1}
	_, err := uc.RegisterFromRequest(context.Background(), req, "", f.user.ID, entity.RoleEmpleado)
	requireKind(t, err, domain.KindInsufficientStock)

	req.TipoMovimiento = ""
	_, err = uc.RegisterFromRequest(context.Background(), req, "", f.user.ID, entity.RoleEmpleado)
	requireKind(t, err, domain.KindInvalidArgument)
}

func TestMovementUseCase_RegistrarANombreDeOtroUsuario(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	uc := newMovementUseCase(f)
	p := f.store.addProduct("Escalera", 0, 0, "1")
	other := f.store.addUser(true)

	req := dto.RegisterMovementRequest{ProductoID: p.ID, UsuarioID: other.ID, Cantidad: 3}
	_, err := uc.RegisterFromRequest(ctx, req, entity.MovementTypeEntrada, f.user.ID, entity.RoleEmpleado)
	de := requireKind(t, err, domain.KindForbidden)
	assert.Equal(t, "USER_MISMATCH", de.Code)
	assert.Equal(t, 0, f.store.movementCount())

	// El propio usuario explícito sí es válido para EMPLEADO
	req.UsuarioID = f.user.ID
	_, err = uc.RegisterFromRequest(ctx, req, entity.MovementTypeEntrada, f.user.ID, entity.RoleEmpleado)
	require.NoError(t, err)

	for _, role := range []string{entity.RoleGerente, entity.RoleAdmin} {
		req.UsuarioID = other.ID
		resp, err := uc.RegisterFromRequest(ctx, req, entity.MovementTypeEntrada, f.user.ID, role)
		require.NoError(t, err, role)
		assert.Equal(t, other.ID, resp.UsuarioID)
	}
	assert.Equal(t, 3, f.store.movementCount())
}

func TestMovementUseCase_GetByIDYListado(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	uc := newMovementUseCase(f)
	p := f.store.addProduct("Balde", 0, 0, "2")
	other := f.store.addProduct("Escoba", 0, 0, "3")

	res, err := f.engine.CreateEntry(ctx, f.input(p.ID, 10))
	require.NoError(t, err)
	_, err = f.engine.CreateExit(ctx, f.input(p.ID, 3))
	require.NoError(t, err)
	_, err = f.engine.CreateEntry(ctx, f.input(other.ID, 1))
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, res.Movement.ID)
	require.NoError(t, err)
	assert.Equal(t, "Balde", got.ProductoNombre)
	assert.True(t, decimal.NewFromInt(20).Equal(got.ValorMonetario))

	_, err = uc.GetByID(ctx, uuid.New().String())
	requireKind(t, err, domain.KindNotFound)

	list, err := uc.ListByProduct(ctx, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 20, list.Page.Limit)

	onlyExits, err := uc.List(ctx, repository.MovementFilter{Type: entity.MovementTypeSalida})
	require.NoError(t, err)
	require.Len(t, onlyExits.Items, 1)
	assert.Equal(t, 3, onlyExits.Items[0].Cantidad)

	_, err = uc.List(ctx, repository.MovementFilter{Type: "OTRO"})
	requireKind(t, err, domain.KindInvalidArgument)

	_, err = uc.ListByProduct(ctx, uuid.New().String(), dto.PageRequest{})
	requireKind(t, err, domain.KindNotFound)
}
