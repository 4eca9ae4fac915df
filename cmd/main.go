package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/mediaguard/config"
	"github.com/angeloszaimis/mediaguard/internal/circuitbreaker"
	"github.com/angeloszaimis/mediaguard/internal/httpserver"
	"github.com/angeloszaimis/mediaguard/internal/metrics"
	"github.com/angeloszaimis/mediaguard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(metricsOptions(cfg), log)

	registry := circuitbreaker.NewRegistry(
		circuitbreaker.WithReporter(collector),
		circuitbreaker.WithLogger(log),
	)
	defer registry.Close()

	if err := initializeBreakers(registry, cfg, log); err != nil {
		log.Error("Failed to initialize circuit breakers", slog.Any("err", err))
		os.Exit(1)
	}

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(collector, registry))
	if err != nil {
		log.Error("Failed to create admin server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Admin server starting", slog.String("address", cfg.Server.Address))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting admin server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func metricsOptions(cfg *config.Config) metrics.Options {
	return metrics.Options{
		LatencyCapacity: cfg.Metrics.LatencyCapacity,
		WindowCapacity:  cfg.Metrics.WindowCapacity,
		AlertCapacity:   cfg.Metrics.AlertCapacity,
		Thresholds: metrics.Thresholds{
			ErrorRate:  cfg.Metrics.Thresholds.ErrorRate,
			LatencyP95: cfg.Metrics.Thresholds.LatencyP95Ms,
			LatencyP99: cfg.Metrics.Thresholds.LatencyP99Ms,
		},
	}
}

func initializeBreakers(registry *circuitbreaker.Registry, cfg *config.Config, log *slog.Logger) error {
	for _, bc := range cfg.Breakers {
		opts, err := breakerOptions(bc)
		if err != nil {
			return err
		}

		cb, err := registry.GetBreaker(bc.Name, opts...)
		if err != nil {
			return err
		}

		log.Info("Registered circuit breaker",
			slog.String("name", cb.Name()),
			slog.String("preset", bc.Preset))
	}
	return nil
}

func breakerOptions(bc config.BreakerConfig) ([]circuitbreaker.Option, error) {
	opts := []circuitbreaker.Option{
		circuitbreaker.WithSettings(circuitbreaker.PresetSettings(bc.Preset)),
	}

	if bc.FailureThreshold > 0 {
		opts = append(opts, circuitbreaker.WithFailureThreshold(bc.FailureThreshold))
	}
	if bc.SuccessThreshold > 0 {
		opts = append(opts, circuitbreaker.WithSuccessThreshold(bc.SuccessThreshold))
	}
	if bc.ResetTimeout != "" {
		d, err := time.ParseDuration(bc.ResetTimeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, circuitbreaker.WithResetTimeout(d))
	}
	if bc.OperationTimeout != "" {
		d, err := time.ParseDuration(bc.OperationTimeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, circuitbreaker.WithOperationTimeout(d))
	}

	return opts, nil
}
