package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error("video summarizer exited", "error", err)
		os.Exit(1)
	}
}

// run wires the dependency graph and serves until ctx is cancelled. Wiring
// fails fast on bad config, an unreachable users table in jwt mode, or an
// invalid summary prompt.
func run(ctx context.Context) error {
	app, err := initializeApp()
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	return app.Run(ctx)
}
