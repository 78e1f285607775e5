package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideLoggerMiddleware() *Middleware { return NewMiddleware(NewLog("http-access.log")) }
func ProvideLogger() *zap.Logger           { return NewLog("system.log") }

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
