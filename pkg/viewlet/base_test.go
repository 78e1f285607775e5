package viewlet

import (
	"context"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoPhaseProtocol(t *testing.T) {
	ctx := context.Background()
	f := NewFunc(Scope{Name: "title"}, 3, func(_ context.Context, v *Func) (string, error) {
		return "<h1>" + v.Fields().String("title") + "</h1>", nil
	})
	assert.Equal(t, StateUninitialized, f.State())

	_, err := f.Render(ctx)
	var unc *UpdateNotCalledError
	require.ErrorAs(t, err, &unc)
	assert.Equal(t, "title", unc.Name)

	require.NoError(t, f.Update(ctx, Fields{"title": "Hello"}))
	assert.Equal(t, StateUpdated, f.State())
	assert.ErrorIs(t, f.Update(ctx, Fields{}), ErrAlreadyUpdated)

	first, err := f.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>", first)
	assert.Equal(t, StateRendered, f.State())

	second, err := f.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.ErrorIs(t, f.Update(ctx, Fields{}), ErrAlreadyUpdated)
}

func TestBaseAccessors(t *testing.T) {
	s := Scope{Context: "ctx", Request: "req", View: "view", Name: "n"}
	b := NewBase(s, 7)
	assert.Equal(t, 7, b.Weight())
	assert.Equal(t, "ctx", b.Context())
	assert.Equal(t, "req", b.Request())
	assert.Equal(t, "view", b.View())
	assert.Equal(t, "n", b.Name())
	assert.True(t, b.Permission().Public())

	b.SetWeight(2)
	b.SetPermission(Permission{Roles: []string{"editor"}})
	assert.Equal(t, 2, b.Weight())
	assert.False(t, PermissionOf(&b).Public())
	assert.True(t, PermissionOf(struct{}{}).Public())
}

func TestCallDeliversThenRenders(t *testing.T) {
	out, err := Call(context.Background(), Static(0, "static")(Scope{}), nil)
	require.NoError(t, err)
	assert.Equal(t, "static", out)
}

type receiver struct {
	fields Fields
}

func (r *receiver) Weight() int                            { return 0 }
func (r *receiver) View() any                              { return nil }
func (r *receiver) Render(context.Context) (string, error) { return r.fields.String("n"), nil }
func (r *receiver) SetFields(f Fields)                     { r.fields = f }

func TestDeliverUsesSetFieldsForSingleCallProviders(t *testing.T) {
	r := &receiver{}
	out, err := Call(context.Background(), r, Fields{"n": 42})
	require.NoError(t, err)
	assert.Equal(t, "42", out)
	assert.Equal(t, "", NameOf(r))
}

func TestTemplateExposesScopeAndInner(t *testing.T) {
	ctx := context.Background()
	tmpl := template.Must(template.New("t").Parse(
		`{{.Name}}:{{.Fields.String "title"}}:{{.View}}:{{if .Viewlet}}inner{{end}}`))

	inner := NewFunc(Scope{}, 0, nil)
	p := NewTemplate(Scope{View: "home", Name: "box"}, 1, tmpl, inner)

	_, err := p.Render(ctx)
	require.Error(t, err)

	require.NoError(t, p.Update(ctx, Fields{"title": "<b>"}))
	out, err := p.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "box:&lt;b&gt;:home:inner", out)
	assert.Equal(t, StateUpdated, inner.State(), "inner receives field data")
}

func TestParseDiscipline(t *testing.T) {
	for in, want := range map[string]Discipline{"": Collapsed, "collapsed": Collapsed, "two-phase": TwoPhase} {
		got, err := ParseDiscipline(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDiscipline("eager")
	require.Error(t, err)
	assert.Equal(t, "two-phase", TwoPhase.String())
}
