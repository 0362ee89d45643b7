package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/melih/lighthouse-hook/internal/config"
)

// NewServer builds the fiber app: the metrics endpoint, then the webhook on
// every other single-segment path.
func NewServer(cfg *config.Config, h *DeployHandler, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "lighthouse-hook",
		DisableStartupMessage: !cfg.Debug,
	})

	app.Use(recover.New())
	if cfg.Debug {
		app.Use(logger.New())
	}

	// Registered first so it wins over the secret parameter.
	app.Get("/"+config.MetricsRoute, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Get("/:secret", h.Deploy)
	app.Post("/:secret", h.Deploy)

	return app
}
