package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookieName  = "estate.sid"
	SessionRedisPrefix = "session:"
	sessionLookupLimit = 2 * time.Second
)

// SessionUser is the shape stored in session under "user".
type SessionUser struct {
	UserID   string `json:"user_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// NewRedisClient parses REDIS_URL into a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// Session loads the session named by the cookie from Redis and puts its user
// in Locals("user"). A missing, unsigned-when-required or unreadable session
// leaves "user" nil. This service only reads sessions; login lives elsewhere.
func Session(rdb *redis.Client, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := sessionIDFromCookie(c.Cookies(SessionCookieName), secret)
		c.Locals("session_id", sessionID)
		c.Locals(userLocal, nil)
		if sessionID == "" || rdb == nil {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.Context(), sessionLookupLimit)
		b, err := rdb.Get(ctx, SessionRedisPrefix+sessionID).Bytes()
		cancel()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Warn().Err(err).Msg("session: redis lookup failed")
			}
			return c.Next()
		}

		var data map[string]interface{}
		if err := json.Unmarshal(b, &data); err != nil {
			return c.Next()
		}
		if u, ok := data["user"].(map[string]interface{}); ok {
			c.Locals(userLocal, u)
		}
		return c.Next()
	}
}

// sessionIDFromCookie accepts "id", "s:id" and "s:id.signature". With a
// secret set only "s:id.signature" cookies carrying a valid HMAC-SHA256
// signature are accepted.
func sessionIDFromCookie(v, secret string) string {
	if !strings.HasPrefix(v, "s:") {
		if secret != "" {
			return ""
		}
		return v
	}
	parts := strings.SplitN(v[2:], ".", 2)
	if secret == "" {
		return parts[0]
	}
	if len(parts) != 2 || !hmac.Equal([]byte(parts[1]), []byte(SignSessionID(parts[0], secret))) {
		return ""
	}
	return parts[0]
}

// SignSessionID returns the cookie signature for id (base64, no padding).
func SignSessionID(id, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id))
	return base64.RawStdEncoding.EncodeToString(mac.Sum(nil))
}

// StoreSession writes a session for user; used by tests and local tooling.
func StoreSession(ctx context.Context, rdb *redis.Client, sessionID string, user SessionUser, ttl time.Duration) error {
	b, err := json.Marshal(map[string]interface{}{"user": user})
	if err != nil {
		return err
	}
	return rdb.Set(ctx, SessionRedisPrefix+sessionID, b, ttl).Err()
}
