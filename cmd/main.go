package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/ocu/internal/adapters/cli"
	"github.com/okian/ocu/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Logs go to stderr; stdout carries the launcher payload.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		logger.Get().Error(ctx, "command failed", logger.Error(err))
		return 1
	}
	return 0
}
