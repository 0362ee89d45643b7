// Package notifier posts deployment outcomes to caller-supplied callback URLs.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/melih/lighthouse-hook/internal/core/domain"
	"github.com/melih/lighthouse-hook/internal/core/ports"
	"github.com/melih/lighthouse-hook/internal/logging"
)

const subsystem = "Callback"

// Callback sends {state, description, context} as a JSON POST.
type Callback struct {
	label   string
	timeout time.Duration
}

// NewCallback returns a notifier that labels every payload with label and
// gives up on a receiver after timeout.
func NewCallback(label string, timeout time.Duration) *Callback {
	return &Callback{label: label, timeout: timeout}
}

// Notify posts the outcome to url. Any HTTP status counts as delivered; only
// transport failures return an error.
func (c *Callback) Notify(ctx context.Context, url, state, description string) (ports.NotifyResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.NotifyResult{}, fmt.Errorf("%w: %w", domain.ErrNotify, err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	logging.Info(subsystem, "Posting %s to %s", state, url)
	code, body, errs := fiber.Post(url).
		Timeout(timeout).
		JSON(domain.CallbackPayload{
			State:       state,
			Description: description,
			Context:     c.label,
		}).
		Bytes()
	if len(errs) > 0 {
		err := fmt.Errorf("%w: POST %s: %w", domain.ErrNotify, url, errors.Join(errs...))
		logging.Error(subsystem, err, "Callback failed")
		return ports.NotifyResult{}, err
	}

	res := ports.NotifyResult{StatusCode: code, Body: string(body)}
	if code < 200 || code > 299 {
		logging.Warn(subsystem, "Callback answered %d: %s", code, res.Body)
	} else {
		logging.Info(subsystem, "Response data is %s", res.Body)
	}
	return res, nil
}
