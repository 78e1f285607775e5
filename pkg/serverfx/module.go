package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joeydtaylor/steeze-viewlet/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-viewlet/pkg/core"
	manifest "github.com/joeydtaylor/steeze-viewlet/pkg/manifest"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-viewlet/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-viewlet/pkg/security"
	"github.com/joeydtaylor/steeze-viewlet/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only
	ManifestEnv     string // e.g., APP_MANIFEST
	DefaultManifest string // e.g., "manifest.toml"
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	DefaultListen   string // e.g., ":4000"
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
	TemplateTTLEnv  string // TEMPLATE_CACHE_TTL_SECONDS
	Catalog         *core.Catalog
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithDefaultListen(addr string) Option   { return func(c *Config) { c.DefaultListen = addr } }
func WithCatalog(cat *core.Catalog) Option   { return func(c *Config) { c.Catalog = cat } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

func defaultConfig() Config {
	return Config{
		Service:         "viewletd",
		ManifestEnv:     "APP_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		DefaultListen:   ":4000",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
		TemplateTTLEnv:  "TEMPLATE_CACHE_TTL_SECONDS",
	}
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		// Middleware, metrics, gate
		bundlefx.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		// Config into DI
		fx.Provide(func() Config { return cfg }),
		// Manifest and the frozen registries built from it
		fx.Provide(provideManifest),
		fx.Provide(provideRuntime),
		// Router
		fx.Provide(fx.Annotate(
			provideRouter,
			fx.ParamTags(``, ``, ``, `name:"metrics"`, ``, ``),
			fx.ResultTags(`name:"app"`),
		)),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}

// ---------- providers ----------

func provideManifest(c Config, zl *zap.Logger) (manifest.Config, error) {
	path := envOr(c.ManifestEnv, c.DefaultManifest)
	man, err := core.LoadConfig(path)
	if err != nil {
		zl.Error("manifest load failed", zap.Error(err), zap.String("path", path))
		return manifest.Config{}, err
	}
	zl.Info("manifest loaded",
		zap.String("path", path),
		zap.Int("regions", len(man.Regions)),
		zap.Int("viewlets", len(man.Viewlets)),
		zap.Int("pages", len(man.Pages)),
	)
	return man, nil
}

func provideRuntime(c Config, man manifest.Config, gate security.Gate, obs metrics.Viewlets, zl *zap.Logger) (*core.Runtime, error) {
	ttl := core.DefaultTemplateTTL
	if v := os.Getenv(c.TemplateTTLEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ttl = time.Duration(n) * time.Second
		}
	}
	return core.NewRuntime(c.Catalog, man, core.Options{
		Gate:        gate,
		Observer:    obs,
		Renders:     obs,
		Logger:      zl,
		TemplateTTL: ttl,
	})
}

func provideRouter(
	a *auth.Middleware,
	lm *logger.Middleware,
	rt *core.Runtime,
	m http.Handler,
	r httpx.Router,
	man manifest.Config,
) http.Handler {
	lm.AddQuietPaths("/ping", "/metrics")
	metrics.AddMetricsSkipPaths("/ping")
	return core.BuildRouter(man, core.BuildDeps{
		Auth:    a,
		LogMW:   lm,
		Metrics: m,
		Router:  r,
		Runtime: rt,
	})
}

// ---------- lifecycle ----------

type serverDeps struct {
	fx.In
	Cfg    Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	addr := envOr(d.Cfg.ListenEnv, d.Cfg.DefaultListen)
	cert := os.Getenv(d.Cfg.TLSCertEnv)
	key := os.Getenv(d.Cfg.TLSKeyEnv)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Cfg.Service),
					zap.String("addr", addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", d.Cfg.Service),
					zap.String("addr", addr),
				)
				go func() {
					srv.TLSConfig = nil
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Cfg.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
