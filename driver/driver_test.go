package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func writeFixture(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDriverCompileSucceeds(t *testing.T) {
	dir := t.TempDir()
	irPath := writeFixture(t, dir, "ir.json", `{
		"nodes": [
			{"id": "L3", "type": "Literal", "properties": {"value": 3}},
			{"id": "L4", "type": "Literal", "properties": {"value": 4}},
			{"id": "A", "type": "Add"},
			{"id": "P", "type": "Print"}
		],
		"edges": [
			{"from": "L3", "to": "A", "toPort": "a"},
			{"from": "L4", "to": "A", "toPort": "b"},
			{"from": "A", "to": "P", "toPort": "value"}
		]
	}`)
	catalogPath := writeFixture(t, dir, "catalog.json", `{
		"Literal": {"outputs": [{"name": "out", "type": "any"}]},
		"Add":{"inputs": [{"name": "a", "type": "double"}, {"name": "b", "type": "double"}], "outputs": [{"name": "out", "type": "double"}]},
		"Print": {"inputs": [{"name": "value", "type": "any"}]}
	}`)

	d, err := New(noop.NewMeterProvider().Meter("test"), nil)
	require.NoError(t, err)

	result, err := d.Compile(context.Background(), irPath, catalogPath)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RequestID)
	assert.Contains(t, result.Source, "double v_A = v_L3 + v_L4;")
}

func TestDriverCompileReportsValidationFailure(t *testing.T) {
	dir := t.TempDir()
	irPath := writeFixture(t, dir, "ir.json", `{
		"nodes": [{"id": "n1", "type": "Mystery"}]
	}`)
	catalogPath := writeFixture(t, dir, "catalog.json", `{}`)

	d, err := New(noop.NewMeterProvider().Meter("test"), nil)
	require.NoError(t, err)

	_, err = d.Compile(context.Background(), irPath, catalogPath)
	require.Error(t, err)
}

func TestExecTimeoutSecondsDefaultsToFive(t *testing.T) {
	t.Setenv("EXEC_TIMEOUT", "")
	assert.Equal(t, 5, ExecTimeoutSeconds())

	t.Setenv("EXEC_TIMEOUT", "30")
	assert.Equal(t, 30, ExecTimeoutSeconds())

	t.Setenv("EXEC_TIMEOUT", "not-a-number")
	assert.Equal(t, 5, ExecTimeoutSeconds())
}

func TestSandboxRequestResponseRoundTrip(t *testing.T) {
	dir := t.TempDir()

	req := SandboxRequest{RequestID: "req-1", TimeoutS: 5}
	require.NoError(t, WriteSandboxRequest(dir, req))

	respPath := filepath.Join(dir, "response.json")
	require.NoError(t, os.WriteFile(respPath, []byte(`{"success": true, "stdout": "7\n"}`), 0o600))

	resp, err := ReadSandboxResponse(dir)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "7\n", resp.Stdout)
}
