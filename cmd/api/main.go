package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/melih/lighthouse-hook/internal/config"
	"github.com/melih/lighthouse-hook/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lighthouse-hook",
		Short: "Redeploy a container when a webhook fires",
		Long: `lighthouse-hook removes every container built from IMAGE_NAME, fetches
the image again and starts CONTAINER_NAME from it. It does this once at
startup and again for every authenticated request to /<UUID>.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Deploy once, then serve the webhook (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "deploy",
			Short: "Run a single deployment and exit",
			RunE:  runDeploy,
		},
	)
	return root
}

// loadConfig loads the settings and initializes logging from them.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("Config", err, "Invalid configuration")
		return nil, err
	}
	logging.Init(logging.LevelFor(cfg.Debug), os.Stderr)
	return cfg, nil
}
