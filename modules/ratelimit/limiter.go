// Package ratelimit throttles write-heavy storefront endpoints with a
// Redis-backed sliding window.
package ratelimit

import (
	"context"
	"time"

	"github.com/example/cityshades/config"
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerWindow is the maximum number of requests allowed in the window.
	RequestsPerWindow int
	// WindowSize is the duration of the sliding window.
	WindowSize time.Duration
}

// ConfigFrom converts the application settings, applying defaults of 20 requests per minute.
func ConfigFrom(cfg config.RateLimitConfig) Config {
	c := Config{RequestsPerWindow: cfg.Requests, WindowSize: cfg.Window}
	if c.RequestsPerWindow <= 0 {
		c.RequestsPerWindow = 20
	}
	if c.WindowSize <= 0 {
		c.WindowSize = time.Minute
	}
	return c
}

// Result represents the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration // only set when not allowed
}

// Limiter decides whether the request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}
