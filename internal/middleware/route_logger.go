package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RouteLogger logs each request entry and exit with status, duration and trace ID.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := GetTraceID(c)
		if traceID == "" {
			traceID = "no-trace-id"
		}
		start := time.Now()
		log.Debug().Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		ms := time.Since(start).Milliseconds()
		event := log.Info()
		if status >= fiber.StatusInternalServerError {
			event = log.Warn()
		}
		event.Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Int64("ms", ms).Msg("Exiting request")
		return err
	}
}
