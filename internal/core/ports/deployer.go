package ports

import (
	"context"

	"github.com/melih/lighthouse-hook/internal/core/domain"
)

// Deployer runs the remove, fetch and run sequence for the configured image.
type Deployer interface {
	Deploy(ctx context.Context) (*domain.DeploymentResult, error)
}
