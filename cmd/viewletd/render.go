package main

import (
	"fmt"
	"net/http"

	"github.com/joeydtaylor/steeze-viewlet/pkg/codec"
	"github.com/joeydtaylor/steeze-viewlet/pkg/core"
	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a page (or a region's fragments) to stdout",
	Example: `  viewletd render --page /items/{id} --param id=42 --vars '{"title":"Items"}'
  viewletd render --fragments Main --view dashboard --user ann --role editor`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.String("page", "", "page path as declared in the manifest")
	f.StringToString("param", nil, "URL parameter for the page route (repeatable)")
	f.String("vars", "", "JSON object of template variables")
	f.String("fragments", "", "render the providers of this region as JSON instead of a page")
	f.String("name", "", "with --fragments, render only this provider")
	f.String("view", "", "with --fragments, the view key")
	f.String("layer", "", "with --fragments, the layer key")
	f.String("user", "", "render as this authenticated user")
	f.String("role", "", "role of --user")
}

func runRender(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	pagePath, _ := flags.GetString("page")
	params, _ := flags.GetStringToString("param")
	rawVars, _ := flags.GetString("vars")
	region, _ := flags.GetString("fragments")
	user, _ := flags.GetString("user")
	role, _ := flags.GetString("role")

	if (pagePath == "") == (region == "") {
		return fmt.Errorf("exactly one of --page or --fragments is required")
	}

	vars := map[string]any{}
	if rawVars != "" {
		if err := codec.JSONStrict.Unmarshal([]byte(rawVars), &vars); err != nil {
			return fmt.Errorf("--vars: %w", err)
		}
	}

	cfg, err := core.LoadConfig(viper.GetString("manifest"))
	if err != nil {
		return err
	}
	principal := auth.New(auth.WithAdminRole(viper.GetString("admin_role")))
	rt, err := core.NewRuntime(builtinCatalog(), cfg, core.Options{
		Gate: security.NewPermissionGate(principal),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if user != "" {
		ctx = auth.WithUser(ctx, auth.User{
			Username:             user,
			Role:                 auth.Role{Name: role},
			AuthenticationSource: auth.AuthenticationSource{Provider: "cli"},
		})
	}

	target := "/"
	if pagePath != "" {
		target = pagePath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if region != "" {
		name, _ := flags.GetString("name")
		view, _ := flags.GetString("view")
		layer, _ := flags.GetString("layer")
		frags, err := rt.Fragments(ctx, core.FragmentQuery{Region: region, Name: name, View: view, Layer: layer, Vars: vars}, req)
		if err != nil {
			return err
		}
		b, err := codec.JSONIndent.Marshal(frags)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	page, ok := findPage(cfg, pagePath)
	if !ok {
		return fmt.Errorf("no page %q in manifest", pagePath)
	}
	page.Vars = withVars(page.Vars, vars)
	html, err := rt.RenderPage(ctx, page, req, params)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, html)
	return err
}

// withVars returns base overlaid with over, leaving base untouched.
func withVars(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func findPage(cfg manifest.Config, path string) (manifest.Page, bool) {
	for _, p := range cfg.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return manifest.Page{}, false
}
