package builder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/go-git/go-git/v5"

	"github.com/melih/lighthouse-hook/internal/core/domain"
	"github.com/melih/lighthouse-hook/internal/logging"
)

const subsystem = "Builder"

type imageBuilder interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error)
}

// cloneFunc checks out repoURL into dir.
type cloneFunc func(ctx context.Context, dir, repoURL string) error

type Adapter struct {
	cli   imageBuilder
	clone cloneFunc
}

func NewBuilderAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, clone: shallowClone}, nil
}

func shallowClone(ctx context.Context, dir, repoURL string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	return err
}

// BuildImage clones a repo and builds a Docker image tagged imageName from
// the Dockerfile at its root.
func (a *Adapter) BuildImage(ctx context.Context, repoURL string, imageName string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "lighthouse-build-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	logging.Info(subsystem, "Cloning %s", repoURL)
	if err := a.clone(ctx, tmpDir, repoURL); err != nil {
		return "", fmt.Errorf("failed to clone repo %s: %w: %w", repoURL, domain.ErrImageBuild, err)
	}

	tar, err := archive.TarWithOptions(tmpDir, &archive.TarOptions{
		ExcludePatterns: []string{".git"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create build context: %w: %w", domain.ErrImageBuild, err)
	}
	defer tar.Close()

	logging.Info(subsystem, "Building image %s", imageName)
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:        []string{imageName},
		Dockerfile:  "Dockerfile",
		Remove:      true,
		ForceRemove: true,
		PullParent:  true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build image %s: %w: %w", imageName, domain.ErrImageBuild, err)
	}
	defer resp.Body.Close()

	// The build only finishes once the stream is drained; failures are
	// reported inside it.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, io.Discard, 0, false, nil); err != nil {
		return "", fmt.Errorf("failed to build image %s: %w: %w", imageName, domain.ErrImageBuild, err)
	}

	return imageName, nil
}
