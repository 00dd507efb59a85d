package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoAppRegistersCommandSet(t *testing.T) {
	app, err := newDemoApp(false, "")
	require.NoError(t, err)
	defer app.Close()

	names := app.dispatcher.Registry().RootNames()
	for _, expected := range []string{"echo", "roll", "id", "wait", "uptime", "help", "version", "admin"} {
		assert.Contains(t, names, expected)
	}
}

func TestDemoAppRunScript(t *testing.T) {
	app, err := newDemoApp(false, "")
	require.NoError(t, err)
	defer app.Close()

	script := filepath.Join(t.TempDir(), "smoke.lr")
	require.NoError(t, os.WriteFile(script, []byte(
		"# smoke test\n"+
			"echo hello world\n"+
			"\n"+
			"id new --upper\n"+
			"uptime\n"), 0o644))

	var out strings.Builder
	require.NoError(t, app.RunScript(script, &out))
	assert.Contains(t, out.String(), "hello world")
}

func TestDemoAppRunScriptStopsOnError(t *testing.T) {
	app, err := newDemoApp(false, "")
	require.NoError(t, err)
	defer app.Close()

	script := filepath.Join(t.TempDir(), "bad.lr")
	require.NoError(t, os.WriteFile(script, []byte("echo ok\nno-such-command\n"), 0o644))

	var out strings.Builder
	err = app.RunScript(script, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDemoAppManifestLoading(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(
		"commands:\n"+
			"  - path: greet\n"+
			"    handler: demo.echo\n"+
			"    parameters:\n"+
			"      - name: who\n"), 0o644))

	app, err := newDemoApp(false, manifest)
	require.NoError(t, err)
	defer app.Close()

	assert.Contains(t, app.dispatcher.Registry().RootNames(), "greet")
}
