// Package manifest is the declarative side of the viewlet layer: regions,
// viewlet directives and pages, decoded from TOML or YAML.
package manifest

// Config is the top-level manifest.
type Config struct {
	// Discipline is "collapsed" (default) or "two-phase".
	Discipline string    `toml:"discipline" yaml:"discipline"`
	Regions    []Region  `toml:"region" yaml:"region"`
	Viewlets   []Viewlet `toml:"viewlet" yaml:"viewlet"`
	Pages      []Page    `toml:"page" yaml:"page"`

	// Dir is the manifest's directory; relative template paths resolve
	// against it. Set by the loader.
	Dir string `toml:"-" yaml:"-"`
}

// Validate normalizes every block in place and runs the structural checks
// that do not depend on registered classes.
func (c *Config) Validate() error {
	if err := c.validateRegions(); err != nil {
		return err
	}
	if err := c.validateViewlets(); err != nil {
		return err
	}
	return c.validatePages()
}

// Guard is an access requirement shared by viewlets and pages.
type Guard struct {
	Roles       []string `toml:"roles" yaml:"roles"`
	Users       []string `toml:"users" yaml:"users"`
	RequireAuth bool     `toml:"require_auth" yaml:"require_auth"`
}

// Open reports whether the guard admits anonymous principals.
func (g Guard) Open() bool {
	return !g.RequireAuth && len(g.Roles) == 0 && len(g.Users) == 0
}
