package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteManifest = `
[[region]]
name = "Main"
fields = [{ name = "message", default = "hi" }, { name = "title" }]

[[viewlet]]
name = "greet"
region = "Main"
class = "message"

[[viewlet]]
name = "heading"
region = "Main"
class = "message"
attribute = "title"
weight = -1

[[page]]
path = "/"
template = "page.html"
view = "home"
`

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"),
		[]byte(`{{ range providers "Main" }}{{ render . }}{{ end }}`), 0o644))
	path := filepath.Join(dir, "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(siteManifest), 0o644))
	return path
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// The commands share cobra's global flag state, so the steps run in order.
func TestCommands(t *testing.T) {
	path := writeManifest(t)

	out, err := run("validate", "--manifest", path)
	require.NoError(t, err)
	assert.Equal(t, path+": ok (1 regions, 2 viewlets, 1 pages)\n", out)

	_, err = run("validate", "--manifest", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = run("render", "--manifest", path)
	assert.EqualError(t, err, "exactly one of --page or --fragments is required")

	out, err = run("render", "--manifest", path, "--page", "/", "--vars", `{"message":"<x>","title":"T"}`)
	require.NoError(t, err)
	assert.Equal(t, "<h2>T</h2>&lt;x&gt;", out)

	_, err = run("render", "--manifest", path, "--page", "/nope")
	assert.EqualError(t, err, `no page "/nope" in manifest`)
}

func TestWithVars(t *testing.T) {
	base := map[string]any{"title": "Items", "n": 1}
	got := withVars(base, map[string]any{"n": float64(3), "flag": true})

	assert.Equal(t, map[string]any{"title": "Items", "n": float64(3), "flag": true}, got)
	assert.Equal(t, 1, base["n"], "page vars are not mutated")
	assert.Empty(t, withVars(nil, nil))
}
