package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/loader"
	"github.com/specialistvlad/shadermat/internal/memhost"
	"github.com/specialistvlad/shadermat/internal/resource"
)

// Loader produces descriptors from the configured paths.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*loader.Set, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	loader     Loader
	registry   *memhost.Registry
	cache      *resource.Cache
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and host registry.
// A nil loader selects the HCL loader.
func NewApp(outW io.Writer, cfg *Config, l Loader) *App {
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	if err != nil {
		logger.Warn("Logger settings rejected, falling back to info level text output.", "error", err)
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if l == nil {
		l = loader.New(loader.Options{TextureEncoding: cfg.TextureFormat})
	}

	reg := memhost.New()
	if cfg.MaxNameLength > 0 {
		reg = memhost.NewWithLimit(cfg.MaxNameLength)
	}
	cache := resource.New(reg, reg.MaxNameLength())
	logger.Debug("Host registry created.", "max_name_length", cache.MaxNameLength())

	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		loader:   l,
		registry: reg,
		cache:    cache,
	}
}

// Registry returns the application's host registry. This is primarily for
// testing.
func (a *App) Registry() *memhost.Registry {
	return a.registry
}
