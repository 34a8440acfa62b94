package api

import (
	"context"
	"fmt"
	"time"

	"github.com/example/calculator-demo/config"
	"github.com/example/calculator-demo/modules/calculator"
	"github.com/example/calculator-demo/modules/stats"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// APIModule is the driving adapter that exposes the calculator over HTTP using Fiber.
type APIModule struct {
	app        *fiber.App
	cfg        config.Config
	calculator calculator.CalculatorPort
	stats      stats.StatsPort
	limiter    fiber.Handler
	logger     types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.DependentModule       = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule. limiter may be nil.
func NewModule(cfg config.Config, limiter fiber.Handler, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:     cfg,
		limiter: limiter,
		logger:  logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"calculator", "stats"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "calculator":
		m.calculator = calculator.NewCalculatorAdapter(container)
	case "stats":
		m.stats = stats.NewStatsAdapter(container)
	}
}

// Start initializes and starts the HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.calculator == nil {
		return fmt.Errorf("calculator dependency not set")
	}

	app, err := newApp(m.cfg, NewHandlers(m.calculator, m.stats, m.logger), m.limiter, m.logger)
	if err != nil {
		return err
	}
	m.app = app

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.cfg.Addr()); err != nil {
			errCh <- err
		}
	}()

	// Wait briefly to catch immediate startup errors (port in use, permission denied)
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", m.cfg.Addr())
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":       m.cfg.Port,
			"public_dir": m.cfg.PublicDir,
			"docs":       m.cfg.DocsPath,
		},
	}
}

// newApp builds the Fiber application with middleware, API routes, docs and static UI.
func newApp(cfg config.Config, h *Handlers, limiter fiber.Handler, moduleLogger types.Logger) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "Calculator Demo",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(moduleLogger),
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency} ${locals:requestid}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,X-Request-ID",
	}))

	routes := h.routes()
	for _, r := range routes {
		handlers := []fiber.Handler{r.Handler}
		if r.Limited && limiter != nil {
			handlers = append([]fiber.Handler{limiter}, handlers...)
		}
		app.Add(r.Method, r.Path, handlers...)
	}
	app.Post("/api/:operation", h.UnknownOperation)

	docs, err := newDocsHandlers(cfg.DocsPath, routes)
	if err != nil {
		return nil, fmt.Errorf("failed to build API docs: %w", err)
	}
	app.Get(cfg.DocsPath, docs.UI)
	app.Get(cfg.DocsPath+"/openapi.json", docs.JSON)
	app.Get(cfg.DocsPath+"/openapi.yaml", docs.YAML)

	app.Static("/", cfg.PublicDir)

	return app, nil
}

// errorHandler handles errors globally.
func errorHandler(moduleLogger types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		if code >= fiber.StatusInternalServerError {
			moduleLogger.Error("HTTP error", "code", code, "message", message, "error", err)
		}

		return c.Status(code).JSON(ErrorResponse{Error: message})
	}
}
