package http

import (
	"context"
	"os/signal"
	"syscall"

	"crispy/internal/xpkg/config"
	"crispy/internal/xpkg/logger"
)

// Execute serves the HTTP API until a shutdown signal arrives.
func Execute(ctx context.Context, mylog logger.Logger, cfg *config.Config) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewServer(newCtx, cfg, mylog)
	if err := server.Run(); err != nil {
		mylog.Action("server_failed").Error("Server failed unexpectedly", err)
		return err
	}
	mylog.Action("server_stopped").Info("Server exited normally")
	return nil
}
