package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
)

type HealthCheckController struct {
	app *config.AppConfig
}

func NewHealthCheckController(app *config.AppConfig) *HealthCheckController {
	return &HealthCheckController{app: app}
}

// HandleHealthCheck reports unhealthy when the host channel connection is gone.
func (hc *HealthCheckController) HandleHealthCheck(c *fiber.Ctx) error {
	if hc.app.NatsConn != nil && !hc.app.NatsConn.IsConnected() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("Unhealthy: nats disconnected")
	}

	if hc.app.RDS != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := hc.app.RDS.Ping(ctx).Err(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Unhealthy: redis unreachable")
		}
	}

	return c.Status(fiber.StatusOK).SendString("Healthy")
}
