package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/searchktools/static-server/app"
	"github.com/searchktools/static-server/config"
	"github.com/searchktools/static-server/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logging.Setup(os.Stderr, cfg.LogJSON)

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := a.Run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
