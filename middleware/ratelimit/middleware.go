package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Middleware applies per-client-IP rate limiting to Fiber routes.
type Middleware struct {
	limiter *SlidingWindowLimiter
	logger  types.Logger
}

// NewMiddleware creates a new rate limiting middleware around limiter.
func NewMiddleware(limiter *SlidingWindowLimiter, logger types.Logger) *Middleware {
	return &Middleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Handler returns the Fiber handler enforcing the limit.
// Redis failures let the request through.
func (m *Middleware) Handler() fiber.Handler {
	limit := m.limiter.Config().RequestsPerWindow

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Unable to determine client IP address",
			})
		}

		result, err := m.limiter.Allow(c.UserContext(), ip)
		if err != nil {
			m.logger.Warn("Rate limit check failed", "ip", ip, "error", err)
			c.Set("X-RateLimit-Error", "unavailable")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			return sendRateLimitExceeded(c, result)
		}
		return c.Next()
	}
}

// sendRateLimitExceeded sends a 429 Too Many Requests response.
func sendRateLimitExceeded(c *fiber.Ctx, result *Result) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set("Retry-After", strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
		"retry_after": retryAfter,
	})
}
