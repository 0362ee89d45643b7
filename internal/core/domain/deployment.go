package domain

// Callback states understood by commit-status style receivers.
const (
	StateSuccess = "success"
	StateFailure = "failure"
)

// DeployRequest is the JSON body accepted by the webhook.
type DeployRequest struct {
	CallbackURL string `json:"callback_url"`
}

// CallbackPayload is posted to the caller's callback URL once a deployment
// has been attempted.
type CallbackPayload struct {
	State       string `json:"state"`
	Description string `json:"description"`
	Context     string `json:"context"`
}

// DeploymentResult describes a completed deployment.
type DeploymentResult struct {
	ID        string
	Removed   []Container
	Container Container
}
