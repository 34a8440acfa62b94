package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis connection behind the rate limiting middleware.
type Module struct {
	redisAddr     string
	redisPassword string
	config        Config
	client        *redis.Client
	middleware    atomic.Pointer[Middleware]
	logger        types.Logger
}

var _ mono.Module = (*Module)(nil)

// NewModule creates a new rate limiting module.
func NewModule(redisAddr, redisPassword string, config Config, logger types.Logger) *Module {
	return &Module{
		redisAddr:     redisAddr,
		redisPassword: redisPassword,
		config:        config,
		logger:        logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "rate-limiter"
}

// Start connects to Redis and builds the middleware.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		Password:     m.redisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.redisAddr, err)
	}

	m.middleware.Store(NewMiddleware(NewSlidingWindowLimiter(m.client, m.config), m.logger))
	m.logger.Info("Rate limiter started",
		"redis", m.redisAddr,
		"limit", m.config.RequestsPerWindow,
		"window", m.config.WindowSize)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	m.middleware.Store(nil)
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Error("Failed to close Redis connection", "error", err)
			return err
		}
	}
	m.logger.Info("Rate limiter stopped")
	return nil
}

// Handler returns a Fiber handler that enforces the limit once the module has
// started and passes requests through otherwise.
func (m *Module) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		mw := m.middleware.Load()
		if mw == nil {
			return c.Next()
		}
		return mw.Handler()(c)
	}
}
