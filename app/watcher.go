package app

import (
	"context"
	"log/slog"
	"os"
	"time"
)

const watchInterval = 2 * time.Second

// rootWatcher polls the served root directory and logs when it disappears
// or reappears. Content is resolved fresh per request, so the watcher is
// purely informational; it never interrupts serving.
type rootWatcher struct {
	root    string
	missing bool
}

func newRootWatcher(root string) *rootWatcher {
	return &rootWatcher{root: root}
}

func (w *rootWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *rootWatcher) check() {
	info, err := os.Stat(w.root)
	switch {
	case err != nil || !info.IsDir():
		if !w.missing {
			w.missing = true
			slog.Warn("served root is gone; requests will fail until it returns", "root", w.root)
		}
	case w.missing:
		w.missing = false
		slog.Info("served root is back", "root", w.root)
	}
}
