package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repos funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// constraintError traduce violaciones de unicidad y FK a Conflict. Devuelve nil para otros errores.
func constraintError(err error, uniqueCode, uniqueMsg, fkCode, fkMsg string) error {
	switch {
	case isUniqueViolation(err):
		return &domain.Error{Kind: domain.KindConflict, Code: uniqueCode, Message: uniqueMsg, Err: err}
	case isForeignKeyViolation(err):
		return &domain.Error{Kind: domain.KindConflict, Code: fkCode, Message: fkMsg, Err: err}
	}
	return nil
}
