package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	stockserver "github.com/Apurer/youstockit/go"
	stockworkflows "github.com/Apurer/youstockit/internal/domains/stock/adapters/workflows"
	stockports "github.com/Apurer/youstockit/internal/domains/stock/ports"
	platformobservability "github.com/Apurer/youstockit/internal/platform/observability"
)

const shutdownTimeout = 30 * time.Second

// Run boots the YouStockIt HTTP API with observability, catalogues, notifiers, and workflows
// wired, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	const serviceName = "youstockit-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stock, cleanupStock, err := BuildStock(ctx, cfg, instruments)
	defer cleanupStock()
	if err != nil {
		return err
	}

	workflows, closeWorkflows := SelectWorkflows(stock, logger, func() (client.Client, error) {
		return ConnectTemporal(cfg, instruments)
	})
	defer closeWorkflows()

	handlers := stockserver.ApiHandleFunctions{
		StockAPI: stockserver.NewStockAPI(stock.Service, workflows, stock.Suppliers, stock.Idempotency),
	}
	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := stockserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	return serve(ctx, server, logger, stock.Persisted)
}

// SelectWorkflows routes orders through Temporal when the worker shares this process's
// catalogues. In-memory catalogues are private to each process, so they always run inline.
func SelectWorkflows(stock *Stock, logger *slog.Logger, connect func() (client.Client, error)) (stockports.WorkflowOrchestrator, func()) {
	inline := stockworkflows.NewInlineStockWorkflows(stock.Service)
	if !stock.Persisted {
		logger.Info("catalogues are in memory, running orders inline")
		return inline, func() {}
	}
	temporalClient, err := connect()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return stockworkflows.NewTemporalStockWorkflows(temporalClient), temporalClient.Close
}

// serve runs server until it fails or ctx is done, then drains in-flight requests. The
// drain window covers an order waiting out every replenishment retry.
func serve(ctx context.Context, server *http.Server, logger *slog.Logger, persisted bool) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("YouStockIt API listening", slog.String("addr", server.Addr), slog.Bool("persisted", persisted))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("YouStockIt API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down YouStockIt API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// ConnectTemporal dials Temporal with tracing and structured logging, unless disabled in cfg.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
