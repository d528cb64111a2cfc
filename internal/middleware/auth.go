package middleware

import (
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user with a valid user_id is in the session.
// Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// UserID returns the session user's id. Every real-estate query is scoped by it.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	var raw string
	switch u := GetUser(c).(type) {
	case map[string]interface{}:
		raw, _ = u["user_id"].(string)
	case SessionUser:
		raw = u.UserID
	case *SessionUser:
		if u != nil {
			raw = u.UserID
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
