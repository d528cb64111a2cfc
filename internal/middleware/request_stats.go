package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for request counters read back by the health endpoint.
const (
	KeyReqTotal  = "health:estate:req_total"
	KeyReqErrors = "health:estate:req_errors"
	KeyResTime   = "health:estate:res_time_total"
	KeyStartTime = "health:estate:start_time"
)

// RequestStats counts API requests, 5xx responses and total latency in Redis.
// Health and favicon requests are not counted. Redis errors never fail a request.
func RequestStats(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		pipe := rdb.Pipeline()
		pipe.SetNX(ctx, KeyStartTime, start.UnixMilli(), 0)
		pipe.Incr(ctx, KeyReqTotal)
		pipe.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
		if status >= fiber.StatusInternalServerError {
			pipe.Incr(ctx, KeyReqErrors)
		}
		_, _ = pipe.Exec(ctx)
		return err
	}
}
