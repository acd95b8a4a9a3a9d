package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Apurer/youstockit/internal/app/api"
	platformobservability "github.com/Apurer/youstockit/internal/platform/observability"
)

// restock-sweeper retries replenishment for every persisted item still below its threshold.
// It is meant to run on a schedule, e.g. as a Kubernetes CronJob.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "youstockit-restock-sweeper")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()
	logger := instruments.Logger

	stock, cleanup, err := api.BuildStock(ctx, cfg, instruments)
	defer cleanup()
	if err != nil {
		log.Fatalf("failed to wire stock service: %v", err)
	}
	if !stock.Persisted {
		log.Fatal("POSTGRES_DSN not set or connection failed; nothing to sweep")
	}

	swept, err := stock.Service.SweepLowStock(ctx)
	if err != nil {
		logger.Error("restock sweep failed", slog.Int("replenished", swept), slog.String("error", err.Error()))
		return
	}
	logger.Info("restock sweep completed", slog.Int("replenished", swept))
}
