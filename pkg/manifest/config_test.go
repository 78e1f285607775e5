package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTemplate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.html"), []byte(`{{.Name}}`), 0o644))
	return dir
}

func valid(dir string) Config {
	return Config{
		Dir:     dir,
		Regions: []Region{{Name: "Main", Fields: []Field{{Name: "title", Default: "Untitled"}}}},
		Viewlets: []Viewlet{
			{Name: "box", Region: "Main", Template: "box.html"},
			{Name: "footer", Region: BuiltinContentRegion, Class: "message"},
		},
		Pages: []Page{{Path: "home/", Template: "box.html", View: "home"}},
	}
}

func TestValidConfigNormalizes(t *testing.T) {
	cfg := valid(withTemplate(t))
	cfg.Viewlets[0].Name = "  box "
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "box", cfg.Viewlets[0].Name)
	assert.Equal(t, "/home", cfg.Pages[0].Path)
}

func TestViewletDirectiveErrors(t *testing.T) {
	dir := withTemplate(t)
	cases := map[string]struct {
		v    Viewlet
		want string
	}{
		"no name":           {Viewlet{Region: "Main", Class: "c"}, "name is required"},
		"no region":         {Viewlet{Name: "x", Class: "c"}, "region is required"},
		"neither":           {Viewlet{Name: "x", Region: "Main"}, "must specify a class or template"},
		"attr and template": {Viewlet{Name: "x", Region: "Main", Class: "c", Template: "box.html", Attribute: "a"}, "cannot be used together"},
		"attr no class":     {Viewlet{Name: "x", Region: "Main", Attribute: "a"}, "must specify a class or template"},
		"missing file":      {Viewlet{Name: "x", Region: "Main", Template: "nope.html"}, "no such template file"},
		"unknown region":    {Viewlet{Name: "x", Region: "Side", Class: "c"}, `region "Side" is not declared`},
		"slash in name":     {Viewlet{Name: "a/b", Region: "Main", Class: "c"}, "must not contain '/'"},
		"space in name":     {Viewlet{Name: "a b", Region: "Main", Class: "c"}, "must not contain whitespace"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid(dir)
			cfg.Viewlets = append(cfg.Viewlets, tc.v)
			err := cfg.Validate()
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, "viewlet", ce.Directive)
			assert.Equal(t, 2, ce.Index)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConflictingViewletRegistration(t *testing.T) {
	cfg := valid(withTemplate(t))
	cfg.Viewlets = append(cfg.Viewlets, Viewlet{Name: "box", Region: "Main", Class: "other"})
	require.ErrorContains(t, cfg.Validate(), "conflicting registration")

	cfg = valid(withTemplate(t))
	cfg.Viewlets = append(cfg.Viewlets, Viewlet{Name: "box", Region: "Main", Class: "other", View: "home"})
	require.NoError(t, cfg.Validate(), "different view key is a separate registration")
}

func TestRegionDirectiveErrors(t *testing.T) {
	cfg := valid(withTemplate(t))
	cfg.Regions = append(cfg.Regions, Region{Name: "Main"})
	require.ErrorContains(t, cfg.Validate(), "duplicate region")

	cfg = valid(withTemplate(t))
	cfg.Regions[0].Fields = append(cfg.Regions[0].Fields, Field{Name: "title"})
	require.ErrorContains(t, cfg.Validate(), `duplicate field "title"`)

	for _, name := range []string{"Main/Side", "Side Bar", "Side\tBar"} {
		cfg = valid(withTemplate(t))
		cfg.Regions = append(cfg.Regions, Region{Name: name})
		var ce *ConfigError
		require.ErrorAs(t, cfg.Validate(), &ce, "name %q", name)
		assert.Equal(t, "region", ce.Directive)
		assert.Equal(t, 1, ce.Index)
	}
}

func TestPageDirectiveErrors(t *testing.T) {
	dir := withTemplate(t)
	for name, p := range map[string]Page{
		"no path":     {Template: "box.html", View: "v"},
		"no template": {Path: "/x", View: "v"},
		"no view":     {Path: "/x", Template: "box.html"},
		"reserved":    {Path: "/x", Template: "box.html", View: "v", Vars: map[string]any{"view": 1}},
		"duplicate":   {Path: "/home", Template: "box.html", View: "v"},
		"timeout":     {Path: "/x", Template: "box.html", View: "v", Timeout: -1},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid(dir)
			cfg.Pages = append(cfg.Pages, p)
			var ce *ConfigError
			require.ErrorAs(t, cfg.Validate(), &ce)
			assert.Equal(t, "page", ce.Directive)
		})
	}
}

func TestGuardOpen(t *testing.T) {
	assert.True(t, Guard{}.Open())
	assert.False(t, Guard{RequireAuth: true}.Open())
	assert.False(t, Guard{Roles: []string{"r"}}.Open())
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/srv", "a.html"), ResolvePath("/srv", "a.html"))
	assert.Equal(t, "/abs/a.html", ResolvePath("/srv", "/abs/a.html"))
	assert.Equal(t, "a.html", ResolvePath("", "a.html"))
}
