package jwt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

func newSigner(t *testing.T, secret string, accessMin int) *jwt.Signer {
	t.Helper()
	s, err := jwt.NewSigner(secret, "inventario-stock", accessMin, 60)
	require.NoError(t, err)
	return s
}

func TestSigner_AccessIdaYVuelta(t *testing.T) {
	s := newSigner(t, "secreto", 15)

	token, exp, err := s.GenerateAccess("u-1", "ana", "GERENTE")
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := s.Parse(token, jwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "GERENTE", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestSigner_RechazaTipoIncorrecto(t *testing.T) {
	s := newSigner(t, "secreto", 15)

	refresh, _, err := s.GenerateRefresh("u-1", "ana", "ADMIN")
	require.NoError(t, err)

	_, err = s.Parse(refresh, jwt.TokenAccess)
	assert.True(t, errors.Is(err, jwt.ErrWrongTokenType))

	claims, err := s.Parse(refresh, jwt.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, jwt.TokenRefresh, claims.TokenType)
}

func TestSigner_RechazaFirmaAjenaYExpirado(t *testing.T) {
	otro := newSigner(t, "otro-secreto", 15)
	token, _, err := otro.GenerateAccess("u-1", "ana", "ADMIN")
	require.NoError(t, err)

	_, err = newSigner(t, "secreto", 15).Parse(token, jwt.TokenAccess)
	assert.Error(t, err)

	expirado := newSigner(t, "secreto", -1)
	token, _, err = expirado.GenerateAccess("u-1", "ana", "ADMIN")
	require.NoError(t, err)
	_, err = expirado.Parse(token, jwt.TokenAccess)
	assert.Error(t, err)

	_, err = expirado.Parse("no.es.jwt", jwt.TokenAccess)
	assert.Error(t, err)
}

func TestNewSigner_SecretoVacio(t *testing.T) {
	_, err := jwt.NewSigner("", "x", 1, 1)
	assert.Error(t, err)
}
