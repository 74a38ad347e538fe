package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// ── Fakes en memoria de los puertos de persistencia ─────────────────────────

type store struct {
	mu         sync.Mutex
	products   map[string]entity.Product
	categories map[string]entity.Category
	roles      map[string]entity.Role
	users      map[string]entity.User
	movements  []entity.Movement
}

func newStore() *store {
	s := &store{
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		roles:      map[string]entity.Role{},
		users:      map[string]entity.User{},
	}
	for i, name := range []string{entity.RoleAdmin, entity.RoleGerente, entity.RoleEmpleado} {
		id := "00000000-0000-0000-0000-00000000000" + string(rune('1'+i))
		s.roles[id] = entity.Role{ID: id, Name: name}
	}
	return s
}

// memTx ejecuta fn sobre el mismo store y revierte productos y movimientos si falla.
type memTx struct{ s *store }

func (t memTx) Run(ctx context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	t.s.mu.Lock()
	products := make(map[string]entity.Product, len(t.s.products))
	for k, v := range t.s.products {
		products[k] = v
	}
	movs := append([]entity.Movement(nil), t.s.movements...)
	t.s.mu.Unlock()

	if err := fn(movementRepo{t.s}, productRepo{t.s}); err != nil {
		t.s.mu.Lock()
		t.s.products, t.s.movements = products, movs
		t.s.mu.Unlock()
		return err
	}
	return ctx.Err()
}

type productRepo struct{ s *store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	p, err := r.GetByName(ctx, name)
	return p != nil, err
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur := r.s.products[p.ID]
	next := *p
	next.StockActual = cur.StockActual
	r.s.products[p.ID] = next
	return nil
}

func (r productRepo) UpdateStock(_ context.Context, id string, v int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.products[id]
	p.StockActual = v
	r.s.products[id] = p
	return nil
}

func (r productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Product
	for _, p := range r.s.products {
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r productRepo) ListByStatus(_ context.Context, status stock.Status) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if stock.StatusOf(p.StockActual, p.StockMinimo) == status {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r productRepo) HasMovements(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r productRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

type movementRepo struct{ s *store }

func (r movementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		m := m
		out = append(out, &m)
	}
	return out, nil
}

func (r movementRepo) SumQuantity(_ context.Context, productID, movementType string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.Type == movementType {
			total += m.Quantity
		}
	}
	return total, nil
}

func (r movementRepo) ExistsByUser(_ context.Context, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type categoryRepo struct{ s *store }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	c, err := r.GetByName(ctx, name)
	return c != nil, err
}

func (r categoryRepo) Update(ctx context.Context, c *entity.Category) error { return r.Create(ctx, c) }

func (r categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.s.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

type roleRepo struct{ s *store }

func (r roleRepo) Create(_ context.Context, role *entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.roles[role.ID] = *role
	return nil
}

func (r roleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r roleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range r.s.roles {
		if strings.EqualFold(role.Name, name) {
			return &role, nil
		}
	}
	return nil, nil
}

func (r roleRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	role, err := r.GetByName(ctx, name)
	return role != nil, err
}

func (r roleRepo) Update(ctx context.Context, role *entity.Role) error { return r.Create(ctx, role) }

func (r roleRepo) List(_ context.Context) ([]*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Role
	for _, role := range r.s.roles {
		role := role
		out = append(out, &role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r roleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.roles, id)
	return nil
}

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	cp.RoleName = r.s.roles[u.RoleID].Name
	r.s.users[u.ID] = cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := r.GetByUsername(ctx, username)
	return u != nil, err
}

func (r userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email != "" && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r userRepo) Update(ctx context.Context, u *entity.User) error { return r.Create(ctx, u) }

func (r userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r userRepo) CountByRole(_ context.Context, roleID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, u := range r.s.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}
