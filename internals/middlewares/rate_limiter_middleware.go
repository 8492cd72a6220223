package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "cobranza_backend/internals/helpers"
)

// Global limiter: every endpoint
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		// gateway notifications retry on non-2xx; never throttle them
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/v1/finance/payments/midtrans/notification"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many requests, try again later")
		},
	})
}

// SettlementRateLimiter is stricter, for endpoints that take row locks.
func SettlementRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many settlement requests, try again later")
		},
	})
}
