package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Middleware limits requests per client IP.
type Middleware struct {
	limiter Limiter
	limit   int
	logger  types.Logger
}

// NewMiddleware creates a middleware that reports limit in its headers.
func NewMiddleware(limiter Limiter, limit int, logger types.Logger) *Middleware {
	return &Middleware{
		limiter: limiter,
		limit:   limit,
		logger:  logger,
	}
}

// Handler returns the Fiber handler. Limiter errors let the request through.
func (m *Middleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		result, err := m.limiter.Allow(c.UserContext(), "ip:"+ip)
		if err != nil {
			m.logger.Warn("Rate limiter unavailable, allowing request",
				"ip", ip,
				"path", c.Path(),
				"error", err.Error())
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
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
	retryAfter := max(int(result.RetryAfter.Seconds()), 1)
	c.Set("Retry-After", strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": fmt.Sprintf("Too many requests, retry after %d seconds", retryAfter),
	})
}
