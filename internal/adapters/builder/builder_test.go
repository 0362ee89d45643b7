package builder

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/lighthouse-hook/internal/core/domain"
)

type fakeBuilder struct {
	body    string
	err     error
	options types.ImageBuildOptions
	context []byte
}

func (f *fakeBuilder) ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error) {
	f.options = options
	f.context, _ = io.ReadAll(buildContext)
	if f.err != nil {
		return types.ImageBuildResponse{}, f.err
	}
	return types.ImageBuildResponse{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func writeDockerfile(ctx context.Context, dir, repoURL string) error {
	return os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644)
}

func TestBuildImage(t *testing.T) {
	fake := &fakeBuilder{body: `{"stream":"Step 1/1 : FROM scratch\n"}
{"aux":{"ID":"sha256:abc"}}
{"stream":"Successfully tagged web:latest\n"}
`}
	var clonedURL string
	a := &Adapter{cli: fake, clone: func(ctx context.Context, dir, repoURL string) error {
		clonedURL = repoURL
		return writeDockerfile(ctx, dir, repoURL)
	}}

	tag, err := a.BuildImage(context.Background(), "https://git.test/web.git", "web:latest")
	require.NoError(t, err)

	assert.Equal(t, "web:latest", tag)
	assert.Equal(t, "https://git.test/web.git", clonedURL)
	assert.Equal(t, []string{"web:latest"}, fake.options.Tags)
	assert.Equal(t, "Dockerfile", fake.options.Dockerfile)
	assert.True(t, fake.options.Remove)
	assert.NotEmpty(t, fake.context, "build context is sent to the engine")
}

func TestBuildImage_CloneFails(t *testing.T) {
	fake := &fakeBuilder{}
	a := &Adapter{cli: fake, clone: func(ctx context.Context, dir, repoURL string) error {
		return errors.New("authentication required")
	}}

	_, err := a.BuildImage(context.Background(), "https://git.test/private.git", "web")
	assert.ErrorIs(t, err, domain.ErrImageBuild)
	assert.Empty(t, fake.options.Tags, "no build is attempted")
}

func TestBuildImage_StreamError(t *testing.T) {
	fake := &fakeBuilder{body: `{"stream":"Step 1/2 : RUN false\n"}
{"errorDetail":{"code":1,"message":"The command '/bin/sh -c false' returned a non-zero code: 1"},"error":"The command '/bin/sh -c false' returned a non-zero code: 1"}
`}
	a := &Adapter{cli: fake, clone: writeDockerfile}

	_, err := a.BuildImage(context.Background(), "https://git.test/web.git", "web")
	assert.ErrorIs(t, err, domain.ErrImageBuild)
	assert.Contains(t, err.Error(), "non-zero code")
}

func TestBuildImage_RequestFails(t *testing.T) {
	a := &Adapter{cli: &fakeBuilder{err: errors.New("engine gone")}, clone: writeDockerfile}

	_, err := a.BuildImage(context.Background(), "https://git.test/web.git", "web")
	assert.ErrorIs(t, err, domain.ErrImageBuild)
}
