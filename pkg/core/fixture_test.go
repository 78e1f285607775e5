package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
	"github.com/stretchr/testify/require"
)

// message is a two-phase class rendering its "title" field.
type message struct {
	viewlet.Base
}

func newMessage(s viewlet.Scope) *message { return &message{Base: viewlet.NewBase(s, 0)} }

func (m *message) Render(context.Context) (string, error) {
	if err := m.BeginRender(); err != nil {
		return "", err
	}
	return "msg:" + m.Fields().String("title"), nil
}

func (m *message) Label() string { return "label" }

func (m *message) shout(context.Context) (string, error) {
	return strings.ToUpper("msg:" + m.Fields().String("title")), nil
}

// bare only implements Provider.
type bare struct{ view any }

func (b *bare) Weight() int                            { return 99 }
func (b *bare) View() any                              { return b.view }
func (b *bare) Render(context.Context) (string, error) { return "bare", nil }

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	require.NoError(t, RegisterClass(c, "message", newMessage, map[string]func(*message, context.Context) (string, error){
		"shout": (*message).shout,
	}))
	require.NoError(t, RegisterClass(c, "bare", func(s viewlet.Scope) *bare { return &bare{view: s.View} }, nil))
	return c
}

const manifestTOML = `
[[region]]
name = "Main"
fields = [{ name = "title", default = "Untitled" }]

[[viewlet]]
name = "box"
region = "Main"
template = "box.html"
weight = 5

[[viewlet]]
name = "msg"
region = "Main"
class = "message"
weight = 1

[[viewlet]]
name = "loud"
region = "Main"
class = "message"
attribute = "shout"
view = "dashboard"
weight = 3

[[viewlet]]
name = "secret"
region = "Main"
class = "bare"
guard = { roles = ["editor"] }

[[viewlet]]
name = "footer"
region = "IContentProvider"
class = "message"
template = "wrap.html"

[[page]]
path = "/items/{id}"
template = "page.html"
view = "dashboard"
vars = { title = "Items" }

[[page]]
path = "/admin"
template = "page.html"
view = "admin"
guard = { require_auth = true }
`

const pageHTML = `<h1>{{ .View.Key }}</h1>` +
	`{{ range providers "Main" }}[{{ render . }}]{{ end }}` +
	`|{{ content "footer" }}|{{ .Context.Param "id" }}`

// writeSite lays out a manifest and its templates in a temp dir and returns
// the manifest path.
func writeSite(t *testing.T, name, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		name:        manifest,
		"box.html":  `<div class="box">{{.Fields.String "title"}}</div>`,
		"wrap.html": `<em>{{.Viewlet.Label}}</em>`,
		"page.html": pageHTML,
	}
	for n, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(body), 0o644))
	}
	return filepath.Join(dir, name)
}
