package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, nombre, descripcion, precio, stock_actual, stock_minimo, categoria_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con el saldo recibido (0 salvo en pruebas de auditoría).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO productos (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.StockActual, p.StockMinimo, p.CategoryID,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if cerr := constraintError(err,
			"PRODUCT_NAME_TAKEN", "ya existe un producto con ese nombre",
			"CATEGORY_NOT_FOUND", "la categoría no existe",
		); cerr != nil {
			return cerr
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.scanOne(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1`, id)
}

// GetForUpdate lee el producto y bloquea su fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.scanOne(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1 FOR UPDATE`, id)
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.scanOne(ctx, `SELECT `+productColumns+` FROM productos WHERE nombre = $1`, name)
}

// ExistsByName indica si hay un producto con ese nombre.
func (r *ProductRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM productos WHERE nombre = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product: %w", err)
	}
	return exists, nil
}

// Update actualiza los datos descriptivos. stock_actual no se toca: solo cambia vía movimientos.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE productos SET nombre = $2, descripcion = $3, precio = $4, stock_minimo = $5, categoria_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.StockMinimo, p.CategoryID, p.UpdatedAt,
	)
	if err != nil {
		if cerr := constraintError(err,
			"PRODUCT_NAME_TAKEN", "ya existe un producto con ese nombre",
			"CATEGORY_NOT_FOUND", "la categoría no existe",
		); cerr != nil {
			return cerr
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock escribe el nuevo saldo. El CHECK (stock_actual >= 0) de la tabla es la última barrera.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stockActual int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE productos SET stock_actual = $2, updated_at = now() WHERE id = $1`,
		id, stockActual,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update product stock: producto %s inexistente", id)
	}
	return nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return r.scanMany(ctx,
		`SELECT `+productColumns+` FROM productos ORDER BY nombre LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

// ListByStatus filtra por estado de stock usando los mismos umbrales que stock.StatusOf.
func (r *ProductRepo) ListByStatus(ctx context.Context, status stock.Status) ([]*entity.Product, error) {
	var where string
	switch status {
	case stock.StatusCritico:
		where = `stock_actual <= stock_minimo`
	case stock.StatusBajo:
		where = `stock_actual > stock_minimo AND 2 * stock_actual <= 3 * stock_minimo`
	case stock.StatusNormal:
		where = `2 * stock_actual > 3 * stock_minimo`
	default:
		return nil, fmt.Errorf("estado de stock desconocido: %q", status)
	}
	return r.scanMany(ctx,
		`SELECT `+productColumns+` FROM productos WHERE `+where+` ORDER BY stock_actual, nombre`,
	)
}

// HasMovements indica si algún movimiento referencia al producto.
func (r *ProductRepo) HasMovements(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM movimientos WHERE producto_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("product has movements: %w", err)
	}
	return exists, nil
}

// CountByCategory cuenta los productos de una categoría.
func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM productos WHERE categoria_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// Delete elimina el producto. La FK de movimientos impide borrar productos con historial.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		if cerr := constraintError(err,
			"PRODUCT_NAME_TAKEN", "ya existe un producto con ese nombre",
			"PRODUCT_HAS_MOVEMENTS", "el producto tiene movimientos registrados",
		); cerr != nil {
			return cerr
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.StockActual, &p.StockMinimo, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.StockActual, &p.StockMinimo, &p.CategoryID,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
