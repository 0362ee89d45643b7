package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrRuntimeUnavailable   = errors.New("container runtime unavailable")
	ErrImagePull            = errors.New("image pull failed")
	ErrImageBuild           = errors.New("image build failed")
	ErrContainerRemove      = errors.New("container removal failed")
	ErrContainerStart       = errors.New("container start failed")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrMalformedRequestBody = errors.New("malformed request body")
	ErrNotify               = errors.New("callback notification failed")
)

// Step names a stage of the deployment workflow.
type Step string

const (
	StepRemove Step = "remove"
	StepFetch  Step = "fetch"
	StepRun    Step = "run"
)

// DeploymentError reports the workflow step that aborted a deployment.
type DeploymentError struct {
	Step Step
	Err  error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment failed at %s step: %v", e.Step, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}
