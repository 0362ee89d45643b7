package docker

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/jsonmessage"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/melih/lighthouse-hook/internal/core/domain"
	"github.com/melih/lighthouse-hook/internal/logging"
)

const subsystem = "Docker"

// dockerAPI is the subset of *client.Client the adapter uses.
type dockerAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ImagePull(ctx context.Context, refStr string, options types.ImagePullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
}

// Adapter implements ports.ContainerService using Docker SDK
type Adapter struct {
	cli dockerAPI
}

// NewAdapter creates a new Docker adapter instance
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

func newAdapter(cli dockerAPI) *Adapter {
	return &Adapter{cli: cli}
}

// Ping checks that the engine answers.
func (a *Adapter) Ping(ctx context.Context) error {
	if _, err := a.cli.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach docker engine: %w: %w", domain.ErrRuntimeUnavailable, err)
	}
	return nil
}

// ListContainers returns the containers whose originating image is image.
func (a *Adapter) ListContainers(ctx context.Context, image string, all bool) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, container.ListOptions{
		All:     all,
		Filters: filters.NewArgs(filters.Arg("ancestor", image)),
	})
	if err != nil {
		return nil, classify(err, domain.ErrContainerRemove, "failed to list containers")
	}

	result := make([]domain.Container, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}

		result = append(result, domain.Container{
			ID:     c.ID,
			Name:   name,
			Image:  c.Image,
			Status: c.Status,
			State:  c.State,
		})
	}
	return result, nil
}

// RemoveContainer deletes c. A container removed concurrently by someone
// else counts as removed.
func (a *Adapter) RemoveContainer(ctx context.Context, c domain.Container, force bool) error {
	err := a.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: force})
	if err == nil {
		return nil
	}
	if errdefs.IsNotFound(err) {
		logging.Debug(subsystem, "Container %s already gone", c.Name)
		return nil
	}
	return classify(err, domain.ErrContainerRemove, fmt.Sprintf("failed to remove container %s", c.Name))
}

// PullImage fetches the latest version of image. The progress stream is read
// to the end because errors can arrive inside it after a 200 response.
func (a *Adapter) PullImage(ctx context.Context, image string) error {
	reader, err := a.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return classify(err, domain.ErrImagePull, fmt.Sprintf("failed to pull image %s", image))
	}
	defer reader.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(reader, io.Discard, 0, false, nil); err != nil {
		return classify(err, domain.ErrImagePull, fmt.Sprintf("failed to pull image %s", image))
	}
	return nil
}

// RunContainer creates and starts a detached container from spec.
func (a *Adapter) RunContainer(ctx context.Context, spec domain.RunSpec) (domain.Container, error) {
	env := make([]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)

	hostConfig := &container.HostConfig{}
	if spec.Network != "" {
		hostConfig.NetworkMode = container.NetworkMode(spec.Network)
	}

	resp, err := a.cli.ContainerCreate(ctx, &container.Config{
		Image: spec.Image,
		Env:   env,
	}, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return domain.Container{}, classify(err, domain.ErrContainerStart, fmt.Sprintf("failed to create container %s", spec.Name))
	}
	for _, w := range resp.Warnings {
		logging.Warn(subsystem, "Create %s: %s", spec.Name, w)
	}

	if err := a.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Leave no stopped container behind holding the name.
		if rmErr := a.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true}); rmErr != nil {
			logging.Error(subsystem, rmErr, "Failed to remove container %s after failed start", spec.Name)
		}
		return domain.Container{}, classify(err, domain.ErrContainerStart, fmt.Sprintf("failed to start container %s", spec.Name))
	}

	return domain.Container{
		ID:    resp.ID,
		Name:  spec.Name,
		Image: spec.Image,
		State: "running",
	}, nil
}

// classify wraps err with ErrRuntimeUnavailable when the engine could not be
// reached and with kind otherwise.
func classify(err error, kind error, msg string) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", msg, domain.ErrRuntimeUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, kind, err)
}

func isUnavailable(err error) bool {
	return client.IsErrConnectionFailed(err) || errdefs.IsUnavailable(err)
}
