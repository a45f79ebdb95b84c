package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/arijit3111w/estateai/internal/adapters/http/api"
	"github.com/arijit3111w/estateai/internal/adapters/http/site"
	"github.com/arijit3111w/estateai/internal/adapters/http/swagger"
	"github.com/arijit3111w/estateai/internal/adapters/repository"
	"github.com/arijit3111w/estateai/internal/adapters/source"
	service "github.com/arijit3111w/estateai/internal/app"
	"github.com/arijit3111w/estateai/internal/config"
	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/scoring"
	"github.com/arijit3111w/estateai/internal/scheduler"
	"github.com/arijit3111w/estateai/pkg/logger"
	"github.com/arijit3111w/estateai/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Bootstrap logger; replaced once the configured format is known.
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Fatal(ctx, "failed to load config", logger.Error(err))
	}

	if err := logger.Init(logger.WithFormat(logger.Format(cfg.LogFormat))); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	loggerInstance := logger.Get()

	metrics.Configure(metricsOptions(cfg)...)

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	refresh := scheduler.New(cfg.RefreshCron, svc, scheduler.WithLogger(loggerInstance.Named("scheduler")))
	if err := refresh.Start(ctx); err != nil {
		loggerInstance.Fatal(ctx, "failed to start refresh schedule", logger.Error(err))
	}
	defer refresh.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// metricsOptions maps the metrics_* keys onto collector options.
func metricsOptions(cfg *config.Config) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBucketsMS),
	}
	if cfg.MetricsInstance != "" {
		opts = append(opts, metrics.WithConstLabels(map[string]string{"instance": cfg.MetricsInstance}))
	}
	return opts
}

// newService wires the dataset store and the service from cfg.
func newService(cfg *config.Config, l logger.Logger) *service.Service {
	store := repository.NewCachedStore(
		repository.WithSource(source.FromLocation(cfg.DatasetSource, cfg.FetchTimeout())),
		repository.WithDecodeOptions(
			dataset.WithMaxRows(cfg.DatasetMaxRows),
			dataset.WithRegion(cfg.Region()),
			dataset.WithStrict(cfg.DatasetStrict),
		),
		repository.WithDedupeIDs(cfg.DedupeIDs),
		repository.WithLogger(l.Named("repository")),
	)
	return service.New(
		service.WithLogger(l.Named("service")),
		service.WithStore(store),
		service.WithScorer(scoring.NewSimilarityScorer(scoring.WithWeights(cfg.SimilarityWeights))),
		service.WithTopK(cfg.DefaultTopK, cfg.MaxTopK),
		service.WithCellSize(cfg.GridCellSize),
		service.WithFinancing(cfg.Financing()),
		service.WithPreload(true),
	)
}

// newHandler registers every route and wraps the mux with request ids.
func newHandler(ctx context.Context, svc *service.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return api.RequestIDMiddleware(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine())
}

// updateServiceMetrics mirrors the cached record count into its gauge.
func updateServiceMetrics(svc *service.Service) {
	if records, ok := svc.GetStats()["records"].(int); ok {
		metrics.UpdateDatasetSize(records)
	}
}
