// Package deploy runs the redeployment sequence: remove every container
// built from the configured image, fetch the image again, start a fresh
// container. At most one sequence runs at a time.
package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/melih/lighthouse-hook/internal/config"
	"github.com/melih/lighthouse-hook/internal/core/domain"
	"github.com/melih/lighthouse-hook/internal/core/ports"
	"github.com/melih/lighthouse-hook/internal/logging"
	"github.com/melih/lighthouse-hook/internal/metrics"
)

// Workflow implements ports.Deployer.
type Workflow struct {
	cfg     *config.Config
	runtime ports.ContainerService
	builder ports.BuilderService
	metrics *metrics.Recorder

	// lock admits one deployment; waiters give up when their context ends.
	lock  *semaphore.Weighted
	newID func() string
}

// Option customizes a Workflow.
type Option func(*Workflow)

// WithBuilder makes the fetch step build the image from cfg.SourceRepoURL
// instead of pulling it.
func WithBuilder(b ports.BuilderService) Option {
	return func(w *Workflow) { w.builder = b }
}

// WithMetrics records step durations and outcomes.
func WithMetrics(r *metrics.Recorder) Option {
	return func(w *Workflow) { w.metrics = r }
}

// NewWorkflow returns the single workflow shared by startup and the webhook.
func NewWorkflow(cfg *config.Config, runtime ports.ContainerService, opts ...Option) *Workflow {
	w := &Workflow{
		cfg:     cfg,
		runtime: runtime,
		lock:    semaphore.NewWeighted(1),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Deploy removes, fetches and runs, in that order. The first failing step
// aborts the rest and is reported as a *domain.DeploymentError.
func (w *Workflow) Deploy(ctx context.Context) (*domain.DeploymentResult, error) {
	if err := w.lock.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for running deployment: %w", err)
	}
	defer w.lock.Release(1)

	res := &domain.DeploymentResult{ID: w.newID()}
	log := logging.With("Workflow", slog.String("deployment", res.ID), slog.String("image", w.cfg.ImageName))
	log.Info("Starting deployment")

	err := w.run(ctx, log, res)
	if err != nil {
		w.metrics.Deployment(metrics.OutcomeFailure)
		log.Error(err, "Deployment aborted")
		return nil, err
	}

	w.metrics.Deployment(metrics.OutcomeSuccess)
	log.Info("Successfully created container with name %s", res.Container.Name)
	return res, nil
}

func (w *Workflow) run(ctx context.Context, log *logging.Logger, res *domain.DeploymentResult) error {
	if err := w.step(ctx, domain.StepRemove, w.cfg.RunTimeout, func(ctx context.Context) error {
		removed, err := w.removeContainers(ctx, log)
		res.Removed = removed
		return err
	}); err != nil {
		return err
	}

	if err := w.step(ctx, domain.StepFetch, w.cfg.PullTimeout, func(ctx context.Context) error {
		return w.fetchImage(ctx, log)
	}); err != nil {
		return err
	}

	return w.step(ctx, domain.StepRun, w.cfg.RunTimeout, func(ctx context.Context) error {
		log.Info("Creating container")
		c, err := w.runtime.RunContainer(ctx, domain.RunSpec{
			Image:   w.cfg.ImageName,
			Name:    w.cfg.ContainerName,
			Env:     w.cfg.ContainerEnv(),
			Network: w.cfg.Network,
		})
		res.Container = c
		return err
	})
}

// step runs fn under timeout and wraps its failure with the step name.
func (w *Workflow) step(ctx context.Context, step domain.Step, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	w.metrics.Step(string(step), time.Since(start))
	if err != nil {
		return &domain.DeploymentError{Step: step, Err: err}
	}
	return nil
}

func (w *Workflow) removeContainers(ctx context.Context, log *logging.Logger) ([]domain.Container, error) {
	containers, err := w.runtime.ListContainers(ctx, w.cfg.ImageName, true)
	if err != nil {
		return nil, err
	}

	removed := make([]domain.Container, 0, len(containers))
	for _, c := range containers {
		log.Info("Removing %s", c.Name)
		if err := w.runtime.RemoveContainer(ctx, c, true); err != nil {
			return removed, err
		}
		removed = append(removed, c)
	}
	log.Info("Successfully removed %d container(s)", len(removed))
	return removed, nil
}

func (w *Workflow) fetchImage(ctx context.Context, log *logging.Logger) error {
	if w.builder != nil && w.cfg.SourceRepoURL != "" {
		_, err := w.builder.BuildImage(ctx, w.cfg.SourceRepoURL, w.cfg.ImageName)
		if err == nil {
			log.Info("Successfully built image from %s", w.cfg.SourceRepoURL)
		}
		return err
	}

	log.Info("Pulling %s", w.cfg.ImageName)
	if err := w.runtime.PullImage(ctx, w.cfg.ImageName); err != nil {
		return err
	}
	log.Info("Successfully pulled image")
	return nil
}
