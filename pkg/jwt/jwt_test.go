package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "secreto-de-pruebas"

func TestGenerateParse_ConservaUsuarioYRol(t *testing.T) {
	tok, err := Generate(secret, "u-1", "bodeguero", "erp-fulfillment", 60)
	require.NoError(t, err)

	userID, role, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := Generate(secret, "u-1", "admin", "erp-fulfillment", 60)
	require.NoError(t, err)
	expired, err := Generate(secret, "u-1", "admin", "erp-fulfillment", -1)
	require.NoError(t, err)

	_, _, err = Parse(secret, expired)
	assert.Error(t, err, "expirado")

	_, _, err = Parse("otro-secreto", valid)
	assert.Error(t, err, "firma")

	_, _, err = Parse("", valid)
	assert.Error(t, err, "secreto vacío")
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := Generate("", "u-1", "admin", "erp-fulfillment", 60)
	assert.Error(t, err)
}
