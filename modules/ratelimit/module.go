package ratelimit

import (
	"context"
	"fmt"

	"github.com/example/cityshades/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every limiter key in Redis.
const KeyPrefix = "cityshades:ratelimit:"

// Module owns the Redis client and the request limiter.
type Module struct {
	redisAddr  string
	config     Config
	client     *redis.Client
	middleware *Middleware
	logger     types.Logger
}

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new rate limiting module.
func NewModule(cfg config.RateLimitConfig, logger types.Logger) *Module {
	return &Module{
		redisAddr: cfg.RedisAddr,
		config:    ConfigFrom(cfg),
		logger:    logger.WithModule("ratelimit"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ratelimit"
}

// Start connects to Redis and builds the middleware.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr: m.redisAddr,
	})
	if err := m.client.Ping(ctx).Err(); err != nil {
		m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	limiter := NewSlidingWindowLimiter(m.client, m.config, KeyPrefix)
	m.middleware = NewMiddleware(limiter, m.config.RequestsPerWindow, m.logger)

	m.logger.Info("Connected to Redis",
		"addr", m.redisAddr,
		"requests", m.config.RequestsPerWindow,
		"window", m.config.WindowSize.String())
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Error("Error closing Redis connection", "error", err.Error())
		}
	}
	m.logger.Info("Module stopped")
	return nil
}

// Middleware returns the rate limiting middleware. It is nil before Start.
func (m *Module) Middleware() *Middleware {
	return m.middleware
}

// Health verifies the Redis connection.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{Healthy: false, Message: "Redis client not initialized"}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("Redis ping failed: %v", err)}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"redis": m.redisAddr},
	}
}
