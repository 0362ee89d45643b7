package ports

import "context"

// NotifyResult is what the callback receiver answered.
type NotifyResult struct {
	StatusCode int
	Body       string
}

// Notifier reports a deployment outcome to a caller-supplied URL.
type Notifier interface {
	Notify(ctx context.Context, url, state, description string) (NotifyResult, error)
}
