// Package main is the entry point of the Sentinel risk-intelligence HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/turtacn/sentinel/internal/app"
	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	httpserver "github.com/turtacn/sentinel/internal/interfaces/http"
	"github.com/turtacn/sentinel/internal/interfaces/http/handlers"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "sentinel-server",
	Short:         "Sentinel risk-intelligence API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: ./config.yaml or /etc/sentinel/config.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Logger for startup
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})
	if err != nil {
		return fmt.Errorf("failed to create startup logger: %w", err)
	}

	// Load config
	loader := config.NewLoader(startupLogger, configFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger; log.level follows the config file
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	loader.WatchConfig(func(updated *config.Config) {
		if setter, ok := appLogger.(monitoring.LevelSetter); ok {
			if err := setter.SetLevel(updated.Log.Level); err != nil {
				appLogger.Warn(ctx, "Ignoring invalid log level", logger.String("level", updated.Log.Level))
				return
			}
			appLogger.Info(ctx, "Log level updated", logger.String("level", updated.Log.Level))
		}
	})

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetricsAdapter(monitoring.NewMetrics(registry))

	// Initialize application services
	services, err := app.NewServices(ctx, cfg, tracing, metrics, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize rate limiter
	limiter, redisConn, err := app.NewRateLimiter(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	checks := map[string]handlers.HealthCheckFunc{
		"feed": func(ctx context.Context) error {
			_, err := services.Incidents.List(ctx)
			return err
		},
	}
	if redisConn != nil {
		defer redisConn.Close()
		checks["redis"] = redisConn.Ping
	}

	// Initialize HTTP handlers and router
	router := httpserver.NewRouter(cfg, appLogger, httpserver.Dependencies{
		Tracing:         tracing,
		Metrics:         metrics,
		Gatherer:        registry,
		RateLimiter:     limiter,
		HealthHandler:   handlers.NewHealthHandler(services.Backend.Name(), checks, appLogger),
		IncidentHandler: handlers.NewIncidentHandler(services.Intelligence, appLogger),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- router.Start() }()

	appLogger.Info(ctx, "Sentinel started",
		logger.String("version", constants.ServiceVersion),
		logger.String("environment", cfg.Server.Environment),
		logger.String("backend", services.Backend.Name()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return router.Stop(shutdownCtx)
}
