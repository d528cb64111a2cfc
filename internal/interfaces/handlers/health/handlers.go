package health

import (
	"time"

	healthsvc "estate-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb     *redis.Client
	DB      healthsvc.DBPinger
	Started time.Time
}

// GET /health/json. Answers 503 when a dependency is down so load balancers can react.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.Collect(c.Context(), h.Rdb, h.DB, h.Started)
	code := fiber.StatusOK
	if result.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"service":      "estate-analytics-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}
