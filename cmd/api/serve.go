package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/melih/lighthouse-hook/internal/adapters/http"
	"github.com/melih/lighthouse-hook/internal/adapters/notifier"
	"github.com/melih/lighthouse-hook/internal/core/domain"
	"github.com/melih/lighthouse-hook/internal/logging"
)

const shutdownTimeout = 30 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := wire(ctx, cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to reach Docker")
		return err
	}

	// Converge to a known state before taking traffic. An unreachable engine
	// is fatal here; a failed deployment is not, the next webhook retries it.
	if _, err := c.workflow.Deploy(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logging.Error("Bootstrap", err, "Startup deployment failed")
		if isFatal(err) {
			return err
		}
	}

	handler := http.NewDeployHandler(cfg.Secret, c.workflow, notifier.NewCallback(cfg.CallbackContext, cfg.CallbackTimeout), c.recorder)
	app := http.NewServer(cfg, handler, c.registry)

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Bootstrap", "All systems operational, listening on %s", cfg.ListenAddr())
		errCh <- app.Listen(cfg.ListenAddr())
	}()

	select {
	case err := <-errCh:
		logging.Error("Bootstrap", err, "Server failed")
		return err
	case <-ctx.Done():
	}

	logging.Info("Bootstrap", "Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logging.Error("Bootstrap", err, "Server failed to shutdown gracefully")
		return err
	}
	return nil
}

// isFatal reports whether err means the container engine is gone.
func isFatal(err error) bool {
	return errors.Is(err, domain.ErrRuntimeUnavailable)
}
