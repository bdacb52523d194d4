package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate("secret", "u1", "c1", "s1", "cajero", "pos-api", 5)
	require.NoError(t, err)

	claims, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "s1", claims.StoreID)
	assert.Equal(t, "cajero", claims.Role)
	assert.Equal(t, "pos-api", claims.Issuer)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := Generate("secret", "u1", "c1", "", "admin", "pos-api", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate("secret", "u1", "c1", "", "admin", "pos-api", -1)
	require.NoError(t, err)
	_, err = Parse("secret", expired)
	assert.Error(t, err, "token expirado")

	_, err = Parse("", tok)
	assert.Error(t, err)

	_, err = Generate("", "u1", "c1", "", "admin", "pos-api", 5)
	assert.Error(t, err)
}

func TestParse_ErroresTipados(t *testing.T) {
	expired, err := Generate("secret", "u1", "c1", "", "admin", "pos-api", -1)
	require.NoError(t, err)
	_, err = Parse("secret", expired)
	assert.ErrorIs(t, err, ErrExpired)

	sinEmpresa, err := Generate("secret", "u1", "", "", "admin", "pos-api", 5)
	require.NoError(t, err)
	_, err = Parse("secret", sinEmpresa)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("secret", "no.es.jwt")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Generate("", "u1", "c1", "", "admin", "pos-api", 5)
	assert.ErrorIs(t, err, ErrNoSecret)
}
