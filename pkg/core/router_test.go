package core

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-viewlet/pkg/codec"
	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"github.com/joeydtaylor/steeze-viewlet/pkg/transport/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	return testServerWith(t, testCatalog(t), nil)
}

func testServerWith(t *testing.T, c *Catalog, edit func(*manifest.Config)) *httptest.Server {
	t.Helper()
	cfg, err := LoadConfig(writeSite(t, "manifest.toml", manifestTOML))
	require.NoError(t, err)
	if edit != nil {
		edit(&cfg)
	}
	a := auth.New(auth.WithDevBypass(true), auth.WithAdminRole("admin"))
	rt, err := NewRuntime(c, cfg, Options{
		Gate:     security.ProvideGate(a),
		Observer: metrics.Viewlets{},
		Renders:  metrics.Viewlets{},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(BuildRouter(cfg, BuildDeps{
		Auth:    a,
		Metrics: metrics.NewPromHttpHandler(),
		Router:  httpx.NewChi(),
		Runtime: rt,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url, user, role string) (int, string, http.Header) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-Dev-User", user)
		req.Header.Set("X-Dev-Role", role)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestPageRoute(t *testing.T) {
	srv := testServer(t)

	code, body, hdr := get(t, srv.URL+"/items/42", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, hdr.Get("Content-Type"), "text/html")
	assert.Equal(t,
		`<h1>dashboard</h1>[msg:Items][MSG:ITEMS][<div class="box">Items</div>]|<em>label</em>|42`,
		body)

	_, body, _ = get(t, srv.URL+"/items/42", "ed", "editor")
	assert.True(t, strings.HasPrefix(body, "<h1>dashboard</h1>[bare]"), body)

	_, body, _ = get(t, srv.URL+"/items/42", "root", "admin")
	assert.True(t, strings.HasPrefix(body, "<h1>dashboard</h1>[bare]"), "admins pass role guards")
}

func TestPageGuard(t *testing.T) {
	srv := testServer(t)

	code, _, _ := get(t, srv.URL+"/admin", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body, _ := get(t, srv.URL+"/admin", "ed", "viewer")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(body, "<h1>admin</h1>"))
}

func TestFragmentsRoute(t *testing.T) {
	srv := testServer(t)

	code, body, hdr := get(t, srv.URL+"/_fragments/Main?view=dashboard&title=T", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, hdr.Get("Content-Type"), "application/json")

	var frags []Fragment
	require.NoError(t, codec.JSONStrict.Unmarshal([]byte(body), &frags))
	require.Len(t, frags, 3)
	assert.Equal(t, []string{"msg", "loud", "box"}, []string{frags[0].Name, frags[1].Name, frags[2].Name})
	assert.Equal(t, "MSG:T", frags[1].HTML)

	code, body, _ = get(t, srv.URL+"/_fragments/Main?name=secret", "ed", "editor")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, codec.JSONStrict.Unmarshal([]byte(body), &frags))
	assert.Equal(t, []Fragment{{Name: "secret", Weight: 0, HTML: "bare"}}, frags)
}

func TestFragmentsRouteErrors(t *testing.T) {
	srv := testServer(t)

	cases := []struct {
		path string
		want int
	}{
		{"/_fragments/Nowhere", http.StatusNotFound},
		{"/_fragments/Main?name=zzz", http.StatusNotFound},
		{"/_fragments/Main?name=secret", http.StatusForbidden},
		{"/_fragments/Main?name=a/b", http.StatusBadRequest},
		{"/no/such/page", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			code, _, _ := get(t, srv.URL+tc.path, "", "")
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestOperationalRoutes(t *testing.T) {
	srv := testServer(t)

	code, _, _ := get(t, srv.URL+"/ping", "", "")
	assert.Equal(t, http.StatusOK, code)

	get(t, srv.URL+"/items/1", "", "")
	code, body, _ := get(t, srv.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "viewlet_lookups_total")
}

func TestPageTimeout(t *testing.T) {
	c := testCatalog(t)
	require.NoError(t, c.RegisterContext("slow", func(r *http.Request, params map[string]string) (any, error) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		return Resource{Params: params}, nil
	}))
	srv := testServerWith(t, c, func(cfg *manifest.Config) {
		cfg.Pages[0].Context = "slow"
		cfg.Pages[0].Timeout = 20
		cfg.Pages[1].Timeout = 2000
	})

	code, body, _ := get(t, srv.URL+"/items/1", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "page render timed out", body)

	code, _, _ = get(t, srv.URL+"/admin", "ed", "viewer")
	assert.Equal(t, http.StatusOK, code)
}
