package main

import (
	"context"
	"log"
	"os"

	"github.com/example/calculator-demo/config"
	"github.com/example/calculator-demo/middleware/ratelimit"
	apimod "github.com/example/calculator-demo/modules/api"
	calcmod "github.com/example/calculator-demo/modules/calculator"
	statsmod "github.com/example/calculator-demo/modules/stats"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

func main() {
	log.Println("=== Calculator Demo ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := mono.WithLogLevel(mono.LogLevelInfo)
	if cfg.LogLevel == "error" {
		logLevel = mono.WithLogLevel(mono.LogLevelError)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		logLevel,
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	logger := app.Logger()

	// Create modules
	statsModule := statsmod.NewModule(logger.WithModule("stats"))
	calculatorModule := calcmod.NewModule(logger.WithModule("calculator"))

	var limiter fiber.Handler
	var limiterModule *ratelimit.Module
	if cfg.RateLimit.Enabled {
		rlConfig := ratelimit.DefaultConfig()
		rlConfig.RequestsPerWindow = cfg.RateLimit.Requests
		rlConfig.WindowSize = cfg.RateLimit.Window
		limiterModule = ratelimit.NewModule(cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, rlConfig, logger.WithModule("rate-limiter"))
		limiter = limiterModule.Handler()
	}

	apiModule := apimod.NewModule(cfg, limiter, logger.WithModule("api"))

	// Register modules
	app.Register(statsModule)
	app.Register(calculatorModule)
	if limiterModule != nil {
		app.Register(limiterModule)
	}
	app.Register(apiModule)

	// Start modules
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	// Wait for shutdown signal and exit with appropriate code
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	base := "http://localhost" + cfg.Addr()

	log.Println("=== Application Started ===")
	log.Printf("Calculator UI:  %s/", base)
	log.Printf("API docs:       %s%s", base, cfg.DocsPath)
	log.Println("Endpoints:")
	log.Println("  GET  /add|/subtract|/multiply|/divide|/pow?a=&b=  - Plain text result")
	log.Println("  POST /api/add|subtract|multiply|divide|power     - JSON {a, b} -> {result}")
	log.Println("  GET  /api/stats                                  - Calculation counters")
	log.Println("  GET  /health                                     - Health check")
	if cfg.RateLimit.Enabled {
		log.Printf("Rate limit:     %d requests per %s (Redis %s)", cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.RedisAddr)
	}
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}
