package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/melih/lighthouse-hook/internal/logging"
)

func runDeploy(cmd *cobra.Command, args []string) error {
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

	res, err := c.workflow.Deploy(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("deployed %s as %s (%s)\n", cfg.ImageName, res.Container.Name, res.ID)
	return nil
}
