package manifest

import "fmt"

// ConfigError reports an invalid directive.
type ConfigError struct {
	Directive string // "region" | "viewlet" | "page"
	Index     int
	Name      string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("manifest: %s %d (%s): %v", e.Directive, e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("manifest: %s %d: %v", e.Directive, e.Index, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
