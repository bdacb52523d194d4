package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HARDWARE_SPOOL_DIR", t.TempDir())
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPermissions_Rol(t *testing.T) {
	out, err := run(t, "", "permissions", "cajero")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "pos.sell")
	assert.NotContains(t, lines, "settings.manage")
}

func TestPermissions_RolDesconocido(t *testing.T) {
	_, err := run(t, "", "permissions", "pirata")
	assert.Error(t, err)
}

func TestPermissions_Matriz(t *testing.T) {
	out, err := run(t, "", "permissions")
	require.NoError(t, err)
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "settings.manage")
}

func TestSeed_Memoria(t *testing.T) {
	out, err := run(t, "", "seed", "--memory")
	require.NoError(t, err)
	assert.Contains(t, out, "NIT 900123456-8")
	assert.Contains(t, out, "tienda    CENTRO")
}

func TestReorder_RequiereEmpresa(t *testing.T) {
	_, err := run(t, "", "reorder")
	assert.Error(t, err)
}

func TestScan_ImprimeLecturas(t *testing.T) {
	out, err := run(t, "7702004003508\nab\n7702090021547", "scan")
	require.NoError(t, err)

	var events []hardware.ScanEvent
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var ev hardware.ScanEvent
		require.NoError(t, dec.Decode(&ev))
		events = append(events, ev)
	}
	require.Len(t, events, 2)
	assert.Equal(t, "7702004003508", events[0].Code)
	assert.Equal(t, "7702090021547", events[1].Code)
}

func TestJob_InvoiceSyncEnMemoria(t *testing.T) {
	out, err := run(t, "", "job", "invoice-sync")
	require.NoError(t, err)
	assert.Contains(t, out, "tarea invoice-sync completada")

	_, err = run(t, "", "job", "desconocida")
	assert.Error(t, err)
}
