package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/youstockit/internal/app/api"
	platformobservability "github.com/Apurer/youstockit/internal/platform/observability"
	stockactivities "github.com/Apurer/youstockit/internal/platform/temporal/activities/stock"
	stockworkflows "github.com/Apurer/youstockit/internal/platform/temporal/workflows/stock"
)

func main() {
	ctx := context.Background()
	const serviceName = "youstockit-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stock, cleanupStock, err := api.BuildStock(ctx, cfg, instruments)
	defer cleanupStock()
	if err != nil {
		logger.Error("failed to wire stock service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !stock.Persisted {
		logger.Warn("worker catalogues are in memory; orders placed here are not visible to the API")
	}
	activities := stockactivities.NewActivities(stock.Service)

	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, stockworkflows.StockTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(stockworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: stockworkflows.OrderPlacementWorkflowName})
	w.RegisterWorkflowWithOptions(stockworkflows.LowStockSweepWorkflow, workflow.RegisterOptions{Name: stockworkflows.LowStockSweepWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: stockactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(activities.SweepLowStock, activity.RegisterOptions{Name: stockactivities.SweepLowStockActivityName})

	logger.Info("worker listening", slog.String("taskQueue", stockworkflows.StockTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
