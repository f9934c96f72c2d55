package rate

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// KeyFunc extracts the caller key from a request.
type KeyFunc func(c *fiber.Ctx) string

// ByIP keys callers by remote address.
func ByIP(c *fiber.Ctx) string { return c.IP() }

// Middleware rejects requests with 429 once the caller's bucket is empty.
func Middleware(m *Manager, key KeyFunc) fiber.Handler {
	if key == nil {
		key = ByIP
	}
	return func(c *fiber.Ctx) error {
		lim := m.GetLimiter(key(c))
		if lim.Allow() {
			return c.Next()
		}
		secs := int(math.Ceil(lim.RetryAfter().Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":  false,
			"errorKey": "rate_limited",
			"error":    "too many requests",
		})
	}
}
