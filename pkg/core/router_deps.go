package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/steeze-viewlet/pkg/transport/httpx"
)

type BuildDeps struct {
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Runtime *Runtime
}
