package ports

import (
	"context"

	"github.com/melih/lighthouse-hook/internal/core/domain"
)

// ContainerService defines the container engine operations a deployment needs.
// This interface allows us to switch between Docker, Podman, or Kubernetes
// without changing the business logic.
type ContainerService interface {
	// Ping fails with domain.ErrRuntimeUnavailable when the engine cannot be reached.
	Ping(ctx context.Context) error
	// ListContainers returns the containers created from image. Stopped
	// containers are included when all is true.
	ListContainers(ctx context.Context, image string, all bool) ([]domain.Container, error)
	// RemoveContainer deletes c. A container that is already gone is not an error.
	RemoveContainer(ctx context.Context, c domain.Container, force bool) error
	PullImage(ctx context.Context, image string) error
	RunContainer(ctx context.Context, spec domain.RunSpec) (domain.Container, error)
}
