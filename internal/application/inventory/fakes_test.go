package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// ─── Almacén en memoria ──────────────────────────────────────────────────────

// memStore simula la BD: txMu serializa transacciones (equivale al lock de fila),
// dataMu protege los mapas para lecturas fuera de transacción.
type memStore struct {
	txMu   sync.Mutex
	dataMu sync.Mutex

	products  map[string]*entity.Product
	movements []*entity.Movement
	users     map[string]*entity.User

	// failMovementCreate fuerza un error al insertar el movimiento (prueba de rollback).
	failMovementCreate error
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		users:    make(map[string]*entity.User),
	}
}

func (s *memStore) addProduct(name string, stockActual, stockMinimo int, price string) *entity.Product {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		StockActual: stockActual,
		StockMinimo: stockMinimo,
		CategoryID:  uuid.New().String(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addUser(active bool) *entity.User {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	u := &entity.User{
		ID:       uuid.New().String(),
		Username: "u" + uuid.New().String()[:8],
		Active:   active,
		RoleName: entity.RoleEmpleado,
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) stockOf(id string) int {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return s.products[id].StockActual
}

func (s *memStore) movementCount() int {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return len(s.movements)
}

// ledgerBalance Σ ENTRADA − Σ SALIDA de un producto.
func (s *memStore) ledgerBalance(productID string) int {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	total := 0
	for _, m := range s.movements {
		if m.ProductID == productID {
			total += m.Delta()
		}
	}
	return total
}

// ─── TxRunner ────────────────────────────────────────────────────────────────

type memTxRunner struct{ s *memStore }

var _ inventory.TxRunner = memTxRunner{}

func (r memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.dataMu.Lock()
	snapshot := make(map[string]entity.Product, len(r.s.products))
	for id, p := range r.s.products {
		snapshot[id] = *p
	}
	movCount := len(r.s.movements)
	r.s.dataMu.Unlock()

	if err := fn(&memMovementRepo{s: r.s}, &memProductRepo{s: r.s}); err != nil {
		r.s.dataMu.Lock()
		for id, p := range snapshot {
			cp := p
			r.s.products[id] = &cp
		}
		r.s.movements = r.s.movements[:movCount]
		r.s.dataMu.Unlock()
		return err
	}
	return nil
}

// ─── ProductRepository ───────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, p := range r.s.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	p, err := r.GetByName(ctx, name)
	return p != nil, err
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	cp := *p
	cp.StockActual = cur.StockActual
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateStock(_ context.Context, id string, stockActual int) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return errors.New("producto inexistente")
	}
	if stockActual < 0 {
		return errors.New("check constraint: stock_actual >= 0")
	}
	p.StockActual = stockActual
	return nil
}

func (r *memProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memProductRepo) ListByStatus(_ context.Context, status stock.Status) ([]*entity.Product, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if stock.StatusOf(p.StockActual, p.StockMinimo) == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) HasMovements(_ context.Context, id string) (bool, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, m := range r.s.movements {
		if m.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	delete(r.s.products, id)
	return nil
}

// ─── MovementRepository ──────────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if r.s.failMovementCreate != nil {
		return r.s.failMovementCreate
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.UserID != "" && m.UserID != f.UserID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memMovementRepo) SumQuantity(_ context.Context, productID, movementType string) (int, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	total := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.Type == movementType {
			total += m.Quantity
		}
	}
	return total, nil
}

func (r *memMovementRepo) ExistsByUser(_ context.Context, userID string) (bool, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, m := range r.s.movements {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// ─── AnalyticsRepository ─────────────────────────────────────────────────────

type memAnalyticsRepo struct {
	s     *memStore
	calls int
	// afterRead se ejecuta tras leer y antes de devolver (simula escrituras concurrentes).
	afterRead func()
}

func (r *memAnalyticsRepo) hook() {
	if fn := r.afterRead; fn != nil {
		r.afterRead = nil
		fn()
	}
}

var _ repository.AnalyticsRepository = (*memAnalyticsRepo)(nil)

func (r *memAnalyticsRepo) GetProductTotals(_ context.Context, productID string) (repository.ProductTotals, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var t repository.ProductTotals
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			continue
		}
		t.MovementCount++
		if m.Type == entity.MovementTypeEntrada {
			t.Entradas += m.Quantity
		} else {
			t.Salidas += m.Quantity
		}
	}
	return t, nil
}

func (r *memAnalyticsRepo) GetStatsByType(_ context.Context, start, end time.Time) ([]repository.TypeStats, error) {
	defer r.hook()
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.calls++
	byType := map[string]*repository.TypeStats{}
	for _, m := range r.s.movements {
		if m.CreatedAt.Before(start) || m.CreatedAt.After(end) {
			continue
		}
		ts, ok := byType[m.Type]
		if !ok {
			ts = &repository.TypeStats{Type: m.Type}
			byType[m.Type] = ts
		}
		ts.Count++
		ts.Quantity += m.Quantity
	}
	var out []repository.TypeStats
	for _, ts := range byType {
		out = append(out, *ts)
	}
	return out, nil
}

func (r *memAnalyticsRepo) GetTopMovedProducts(_ context.Context, start, end time.Time, limit int) ([]repository.ProductMovementCount, error) {
	defer r.hook()
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.calls++
	byProduct := map[string]*repository.ProductMovementCount{}
	for _, m := range r.s.movements {
		if m.CreatedAt.Before(start) || m.CreatedAt.After(end) {
			continue
		}
		pc, ok := byProduct[m.ProductID]
		if !ok {
			pc = &repository.ProductMovementCount{ProductID: m.ProductID, ProductName: r.s.products[m.ProductID].Name}
			byProduct[m.ProductID] = pc
		}
		pc.MovementCount++
		if m.Type == entity.MovementTypeEntrada {
			pc.Entradas += m.Quantity
		} else {
			pc.Salidas += m.Quantity
		}
	}
	out := make([]repository.ProductMovementCount, 0, len(byProduct))
	for _, pc := range byProduct {
		out = append(out, *pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovementCount > out[j].MovementCount })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ─── UserRepository ──────────────────────────────────────────────────────────

type memUserRepo struct{ s *memStore }

var _ repository.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := r.GetByUsername(ctx, username)
	return u != nil, err
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) CountByRole(_ context.Context, roleID string) (int, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	n := 0
	for _, u := range r.s.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	delete(r.s.users, id)
	return nil
}

// ─── Publisher y caché ───────────────────────────────────────────────────────

type recordingPublisher struct {
	mu        sync.Mutex
	movements []string
	alerts    []inventory.StockAlert
}

func (p *recordingPublisher) PublishMovementRecorded(_ context.Context, m *entity.Movement, _ int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movements = append(p.movements, m.ID)
	return nil
}

func (p *recordingPublisher) PublishStockAlert(_ context.Context, a inventory.StockAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, a)
	return nil
}

// blockingPublisher simula un broker colgado: espera hasta que venza el contexto.
type blockingPublisher struct {
	mu       sync.Mutex
	deadline []bool
	errs     []error
}

func (p *blockingPublisher) wait(ctx context.Context) error {
	_, ok := ctx.Deadline()
	p.mu.Lock()
	p.deadline = append(p.deadline, ok)
	p.mu.Unlock()
	if !ok {
		// Sin deadline se bloquearía para siempre
		return errors.New("contexto sin deadline")
	}
	<-ctx.Done()
	p.mu.Lock()
	p.errs = append(p.errs, ctx.Err())
	p.mu.Unlock()
	return ctx.Err()
}

func (p *blockingPublisher) PublishMovementRecorded(ctx context.Context, _ *entity.Movement, _ int) error {
	return p.wait(ctx)
}

func (p *blockingPublisher) PublishStockAlert(ctx context.Context, _ inventory.StockAlert) error {
	return p.wait(ctx)
}

type mapCache struct {
	mu      sync.Mutex
	items   map[string]any
	cleared int
	gen     uint64
}

func newMapCache() *mapCache { return &mapCache{items: map[string]any{}} }

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *mapCache) Set(key string, v any, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.gen {
		return
	}
	c.items[key] = v
}

func (c *mapCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]any{}
	c.cleared++
	c.gen++
}
