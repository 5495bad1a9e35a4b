package notsub

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"crispy/internal/notsub/adapter/consumer"
	"crispy/internal/notsub/app/services"
	"crispy/internal/xpkg/config"
	"crispy/internal/xpkg/logger"
	"crispy/internal/xpkg/rabbitmq"
)

// Execute runs the notification subscriber until a shutdown signal arrives.
func Execute(ctx context.Context, mylog logger.Logger, cfg *config.Config, out io.Writer) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mb, err := rabbitmq.New(newCtx, cfg.RMQ, mylog)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	notsub := consumer.NewNotification(mb, services.NewNotifier(out, mylog), cfg.RMQ.Queue, mylog)
	runErr := notsub.Run(newCtx)
	if runErr != nil {
		mylog.Action("notsub_run_failed").Error("Notification subscriber service stopped with error", runErr)
	}

	if err := mb.Close(); err != nil {
		mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
		if runErr == nil {
			runErr = err
		}
	}
	mylog.Action("graceful_shutdown_completed").Info("Notification subscriber stopped")
	return runErr
}
