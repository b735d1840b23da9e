package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Inkwell-Network/inkwell/internal/config"
)

// Build-time values injected via -ldflags -X.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetVersion(version)

	// SIGINT and SIGTERM cancel the command context; the serve command
	// blocks on it and shuts the node down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	Execute(ctx)
}
