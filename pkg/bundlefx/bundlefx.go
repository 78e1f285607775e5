// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"go.uber.org/fx"
)

// Module provides the middleware stack and the viewlet security gate.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
	security.Module,
)
