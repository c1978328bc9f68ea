package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/socrates-echo-api/internal/config"
	"github.com/noah-isme/socrates-echo-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Workspaces  int       `json:"workspaces"`
}

// WorkspaceCounter reports the number of live workspaces.
type WorkspaceCounter interface {
	Len() int
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config, workspaces WorkspaceCounter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}
		if workspaces != nil {
			payload.Workspaces = workspaces.Len()
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
