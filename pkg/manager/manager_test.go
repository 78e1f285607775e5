package manager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/joeydtaylor/steeze-viewlet/pkg/adapter"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-viewlet/pkg/region"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"github.com/joeydtaylor/steeze-viewlet/pkg/viewlet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

var mainRegion = region.MustNew("Main")

func item(weight int, perm viewlet.Permission) func(viewlet.Scope) *viewlet.Func {
	return func(s viewlet.Scope) *viewlet.Func {
		f := viewlet.NewFunc(s, weight, func(context.Context, *viewlet.Func) (string, error) { return s.Name, nil })
		f.SetPermission(perm)
		return f
	}
}

func register(t *testing.T, reg *adapter.Registry, name string, weight int, perm viewlet.Permission) {
	t.Helper()
	require.NoError(t, adapter.Register(reg, adapter.Registration{Region: mainRegion.Name(), Name: name}, item(weight, perm)))
}

func names(ps []viewlet.Provider) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewlet.NameOf(p))
	}
	return out
}

type counting struct {
	lookups  map[string]int
	excluded map[string]int
}

func newCounting() *counting {
	return &counting{lookups: map[string]int{}, excluded: map[string]int{}}
}

func (c *counting) Lookup(op, outcome string) { c.lookups[op+"/"+outcome]++ }
func (c *counting) Excluded(region string)    { c.excluded[region]++ }

func TestValuesSortsByWeightStably(t *testing.T) {
	reg := adapter.NewRegistry()
	register(t, reg, "first", 5, viewlet.Permission{})
	register(t, reg, "light", 0, viewlet.Permission{})
	register(t, reg, "second", 5, viewlet.Permission{})

	m := NewDefault(viewlet.Scope{}, Deps{Registry: reg})
	ps, err := m.Values(context.Background(), mainRegion)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"light", "first", "second"}, names(ps)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestValuesDropsUnauthorized(t *testing.T) {
	reg := adapter.NewRegistry()
	register(t, reg, "a", 10, viewlet.Permission{})
	register(t, reg, "b", 1, viewlet.Permission{RequireAuth: true})
	register(t, reg, "c", 1, viewlet.Permission{})

	core, logs := observer.New(zapcore.DebugLevel)
	obs := newCounting()
	m := NewDefault(viewlet.Scope{}, Deps{
		Registry: reg,
		Gate:     security.NewPermissionGate(auth.New()),
		Logger:   zap.New(core),
		Observer: obs,
	})
	ps, err := m.Values(context.Background(), mainRegion)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, names(ps))
	assert.Equal(t, 1, obs.excluded["Main"])

	entries := logs.FilterMessage("viewlet excluded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ContextMap()["viewlet"])
	assert.NotEmpty(t, entries[0].ContextMap()["scope_id"])
}

func TestValuesEmptyRegion(t *testing.T) {
	m := NewDefault(viewlet.Scope{}, Deps{})
	ps, err := m.Values(context.Background(), region.MustNew("Empty"))
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestItemDistinguishesMissingFromUnauthorized(t *testing.T) {
	reg := adapter.NewRegistry()
	register(t, reg, "secret", 0, viewlet.Permission{Roles: []string{"editor"}})
	register(t, reg, "open", 0, viewlet.Permission{})

	obs := newCounting()
	m := NewDefault(viewlet.Scope{}, Deps{
		Registry: reg,
		Gate:     security.NewPermissionGate(auth.New()),
		Observer: obs,
	})
	ctx := context.Background()

	_, err := m.Item(ctx, "nope", mainRegion)
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "nope", le.Name)
	assert.True(t, errors.Is(err, ErrProviderNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, `no viewlet with name "nope" found in region "Main"`, err.Error())

	_, err = m.Item(ctx, "secret", mainRegion)
	var ue *UnauthorizedError
	require.ErrorAs(t, err, &ue)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrProviderNotFound))

	editor := auth.WithUser(ctx, auth.User{Username: "ed", Role: auth.Role{Name: "editor"}})
	p, err := m.Item(editor, "secret", mainRegion)
	require.NoError(t, err)
	assert.Equal(t, "secret", viewlet.NameOf(p))

	p, err = m.Item(ctx, "open", mainRegion)
	require.NoError(t, err)
	assert.Equal(t, viewlet.StateUninitialized, p.(*viewlet.Func).State(), "Item does not render")

	assert.Equal(t, 1, obs.lookups["item/not_found"])
	assert.Equal(t, 1, obs.lookups["item/unauthorized"])
	assert.Equal(t, 2, obs.lookups["item/ok"])
}

func TestValuesOrderingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weights := rapid.SliceOfN(rapid.IntRange(-3, 3), 0, 12).Draw(t, "weights")
		public := rapid.SliceOfN(rapid.Bool(), len(weights), len(weights)).Draw(t, "public")

		reg := adapter.NewRegistry()
		for i, w := range weights {
			perm := viewlet.Permission{}
			if !public[i] {
				perm.RequireAuth = true
			}
			err := adapter.Register(reg, adapter.Registration{Region: "Main", Name: fmt.Sprintf("p%02d", i)}, item(w, perm))
			if err != nil {
				t.Fatal(err)
			}
		}
		m := NewDefault(viewlet.Scope{}, Deps{Registry: reg, Gate: security.NewPermissionGate(auth.New())})
		ps, err := m.Values(context.Background(), mainRegion)
		if err != nil {
			t.Fatal(err)
		}

		// expected: authorized providers, weight ascending, registration order on ties
		var want []string
		for w := -3; w <= 3; w++ {
			for i, x := range weights {
				if x == w && public[i] {
					want = append(want, fmt.Sprintf("p%02d", i))
				}
			}
		}
		if diff := cmp.Diff(want, names(ps), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("order (-want +got):\n%s", diff)
		}
	})
}

type fixedManager struct{ ps []viewlet.Provider }

func (f fixedManager) Values(context.Context, *region.Region) ([]viewlet.Provider, error) {
	return f.ps, nil
}

func (f fixedManager) Item(_ context.Context, name string, r *region.Region) (viewlet.Provider, error) {
	return nil, &LookupError{Name: name, Region: r.Name()}
}

type dashboard struct{}

func (dashboard) TypeKeys() []adapter.TypeKey { return []adapter.TypeKey{"dashboard"} }

func TestManagersPickCustomManagerBySpecificity(t *testing.T) {
	ms := NewManagers(Deps{})
	require.NoError(t, ms.Register("", "", "dashboard", func(viewlet.Scope, Deps) Manager { return fixedManager{} }))
	ms.Freeze()

	_, isFixed := ms.For(viewlet.Scope{View: dashboard{}}).(fixedManager)
	assert.True(t, isFixed)

	_, isDefault := ms.For(viewlet.Scope{View: "other"}).(*Default)
	assert.True(t, isDefault)

	assert.Error(t, ms.Register("", "", "late", func(viewlet.Scope, Deps) Manager { return nil }))
}
