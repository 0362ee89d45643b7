package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/melih/lighthouse-hook/internal/adapters/builder"
	"github.com/melih/lighthouse-hook/internal/adapters/docker"
	"github.com/melih/lighthouse-hook/internal/config"
	"github.com/melih/lighthouse-hook/internal/core/deploy"
	"github.com/melih/lighthouse-hook/internal/logging"
	"github.com/melih/lighthouse-hook/internal/metrics"
)

type components struct {
	workflow *deploy.Workflow
	registry *prometheus.Registry
	recorder *metrics.Recorder
}

// wire connects the adapters to the workflow and checks the engine answers.
func wire(ctx context.Context, cfg *config.Config) (*components, error) {
	// 1. Initialize Adapters (Infrastructure)
	dockerAdapter, err := docker.NewAdapter()
	if err != nil {
		return nil, err
	}
	if err := dockerAdapter.Ping(ctx); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	opts := []deploy.Option{deploy.WithMetrics(recorder)}
	if cfg.SourceRepoURL != "" {
		builderAdapter, err := builder.NewBuilderAdapter()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize builder: %w", err)
		}
		opts = append(opts, deploy.WithBuilder(builderAdapter))
		logging.Info("Bootstrap", "Images will be built from %s", cfg.SourceRepoURL)
	}

	// 2. One workflow shared by the startup run and the webhook.
	return &components{
		workflow: deploy.NewWorkflow(cfg, dockerAdapter, opts...),
		registry: registry,
		recorder: recorder,
	}, nil
}
