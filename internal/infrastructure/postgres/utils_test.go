package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

func TestConstraintError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	err := constraintError(unique, "NAME_TAKEN", "duplicado", "FK", "referencia")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.True(t, errors.Is(err, domain.Conflict("NAME_TAKEN", "")))

	err = constraintError(fk, "NAME_TAKEN", "duplicado", "HAS_CHILDREN", "referencia")
	assert.True(t, errors.Is(err, domain.Conflict("HAS_CHILDREN", "")))

	assert.Nil(t, constraintError(check, "A", "a", "B", "b"))
	assert.Nil(t, constraintError(errors.New("23505 en el texto no cuenta"), "A", "a", "B", "b"))
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://ya", migrateURL("pgx5://ya"))
}
