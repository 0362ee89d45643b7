package http

import (
	"crypto/subtle"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/melih/lighthouse-hook/internal/core/domain"
	"github.com/melih/lighthouse-hook/internal/core/ports"
	"github.com/melih/lighthouse-hook/internal/logging"
	"github.com/melih/lighthouse-hook/internal/metrics"
)

const subsystem = "HTTP"

// DeployHandler serves the webhook that triggers a redeployment.
type DeployHandler struct {
	secret   string
	deployer ports.Deployer
	notifier ports.Notifier
	metrics  *metrics.Recorder
}

func NewDeployHandler(secret string, deployer ports.Deployer, notifier ports.Notifier, rec *metrics.Recorder) *DeployHandler {
	return &DeployHandler{secret: secret, deployer: deployer, notifier: notifier, metrics: rec}
}

// Deploy authenticates the path secret, reads callback_url from the body,
// runs the deployment and reports the outcome to the callback.
//
// Rejected requests get an empty body: 401 for a wrong secret, 400 for a
// bad body. A failed deployment answers 503 when the engine is unreachable
// and 500 otherwise.
func (h *DeployHandler) Deploy(c *fiber.Ctx) error {
	logging.Debug(subsystem, "Got %s request", c.Method())

	if !h.authenticated(c.Params("secret")) {
		logging.Error(subsystem, domain.ErrAuthenticationFailed, "Secret does not match")
		c.Status(fiber.StatusUnauthorized)
		return nil
	}

	callbackURL, err := h.parseCallback(c)
	if err != nil {
		logging.Error(subsystem, err, "Rejecting request body")
		c.Status(fiber.StatusBadRequest)
		return nil
	}
	logging.Info(subsystem, "Successfully passed checks")

	ctx := c.UserContext()
	res, err := h.deployer.Deploy(ctx)
	if err != nil {
		h.notify(c, callbackURL, domain.StateFailure, err.Error())
		if errors.Is(err, domain.ErrRuntimeUnavailable) {
			c.Status(fiber.StatusServiceUnavailable)
		} else {
			c.Status(fiber.StatusInternalServerError)
		}
		return nil
	}

	logging.Info(subsystem, "Deployment %s finished", res.ID)
	h.notify(c, callbackURL, domain.StateSuccess, "Deployed")
	return c.SendString("success")
}

func (h *DeployHandler) authenticated(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.secret)) == 1
}

func (h *DeployHandler) parseCallback(c *fiber.Ctx) (string, error) {
	var req domain.DeployRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return "", errors.Join(domain.ErrMalformedRequestBody, err)
	}
	if req.CallbackURL == "" {
		return "", errors.Join(domain.ErrMalformedRequestBody, errors.New("callback_url is required"))
	}
	u, err := url.Parse(req.CallbackURL)
	if err != nil {
		return "", errors.Join(domain.ErrMalformedRequestBody, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.Join(domain.ErrMalformedRequestBody, errors.New("callback_url must be an absolute http(s) URL"))
	}
	return req.CallbackURL, nil
}

// notify never fails the request; the deployment has already happened.
func (h *DeployHandler) notify(c *fiber.Ctx, callbackURL, state, description string) {
	if _, err := h.notifier.Notify(c.UserContext(), callbackURL, state, description); err != nil {
		h.metrics.Callback(metrics.OutcomeFailure)
		return
	}
	h.metrics.Callback(metrics.OutcomeSuccess)
}
