package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestOrderNext_ListaDestinos(t *testing.T) {
	out, err := runCLI(t, "order", "next", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "processing\ncancelled\n", out)
}

func TestOrderNext_EstadoTerminalSinDestinos(t *testing.T) {
	out, err := runCLI(t, "order", "next", "delivered")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOrderNext_EstadoDesconocido(t *testing.T) {
	_, err := runCLI(t, "order", "next", "teleported")
	assert.Error(t, err)
}

func TestOrderStatus_ValidaArgumentos(t *testing.T) {
	_, err := runCLI(t, "order", "status", "solo-id")
	assert.Error(t, err)
}

func TestUserCreate_RequiereEmail(t *testing.T) {
	_, err := runCLI(t, "user", "create", "--password", "12345678")
	assert.Error(t, err)
}

func TestWriteJSON_Indentado(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
