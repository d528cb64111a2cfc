package middleware

import (
	"errors"

	"estate-backend/internal/application/analytics"
	"estate-backend/internal/application/valuation"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var errorStatus = []struct {
	err  error
	code int
}{
	{valuation.ErrNotFound, fiber.StatusNotFound},
	{analytics.ErrPropertyNotFound, fiber.StatusNotFound},
	{valuation.ErrMissingInputs, fiber.StatusUnprocessableEntity},
	{valuation.ErrInvalidRange, fiber.StatusUnprocessableEntity},
}

// StatusFor maps domain errors to HTTP status codes; anything unknown is 500.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the global error handler. Returns the standard error format.
// Internal errors are logged and never echoed to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("Unhandled error")
		message = "Internal Server Error"
	}
	return response.Error(c, message, code, nil)
}
