// Package app ties configuration, logging and the engine into a runnable
// server with signal-driven shutdown.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/searchktools/static-server/config"
	"github.com/searchktools/static-server/core"
	"github.com/searchktools/static-server/logging"
)

// App is one configured server instance.
type App struct {
	cfg    *config.Config
	engine *core.Engine
}

// New builds the engine from cfg. The listening socket is bound here, so
// port conflicts surface before Run.
func New(cfg *config.Config) (*App, error) {
	var access core.AccessLogger
	if !cfg.Quiet {
		access = logging.NewAccessLog(os.Stdout, cfg.LogJSON)
	}

	engine, err := core.New(cfg, access)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, engine: engine}, nil
}

// Addr reports the engine's bound address.
func (a *App) Addr() string { return a.engine.Addr() }

// Run serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		a.engine.Shutdown()
	}()

	watcher := newRootWatcher(a.cfg.Root)
	go watcher.run(ctx)

	if a.cfg.Open {
		openBrowser("http://" + a.engine.Addr() + "/")
	}

	return a.engine.Serve()
}
