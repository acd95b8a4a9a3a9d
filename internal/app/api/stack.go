package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	stockmemory "github.com/Apurer/youstockit/internal/domains/stock/adapters/memory"
	"github.com/Apurer/youstockit/internal/domains/stock/adapters/notify"
	stockobs "github.com/Apurer/youstockit/internal/domains/stock/adapters/observability"
	stockpostgres "github.com/Apurer/youstockit/internal/domains/stock/adapters/persistence/postgres"
	stockapp "github.com/Apurer/youstockit/internal/domains/stock/application"
	stockports "github.com/Apurer/youstockit/internal/domains/stock/ports"
	"github.com/Apurer/youstockit/internal/platform/migrations"
	platformobservability "github.com/Apurer/youstockit/internal/platform/observability"
	platformpostgres "github.com/Apurer/youstockit/internal/platform/postgres"
	"github.com/Apurer/youstockit/internal/platform/rabbitmq"
	"github.com/Apurer/youstockit/internal/platform/suppliers"
)

// Stock bundles the wired stock domain shared by the API, the worker and the sweeper.
type Stock struct {
	Service     stockports.Service
	Suppliers   stockports.SupplierDirectory
	Idempotency stockports.IdempotencyStore
	Persisted   bool
}

// BuildStock wires suppliers, catalogues, notifiers and the instrumented catalogue service.
// Postgres and RabbitMQ are optional: without them catalogues stay in memory and
// notifications are only logged. The returned cleanup releases every opened connection.
func BuildStock(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Stock, func(), error) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	directory, err := suppliers.Directory(cfg.SuppliersFile)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to load supplier directory: %w", err)
	}

	store, closeDB := buildStorage(ctx, cfg, logger, directory)
	cleanups = append(cleanups, closeDB)

	notifier, closeAMQP := buildNotifier(ctx, cfg, logger)
	cleanups = append(cleanups, closeAMQP)

	replenisher := stockapp.NewReplenisher(
		notifier,
		stockapp.WithMaxAttempts(cfg.MaxAttempts),
		stockapp.WithRetryDelay(cfg.RetryDelay),
		stockapp.WithLogger(logger),
		stockapp.WithMeter(instruments.Meter("internal.stock.replenishment")),
	)
	core := stockapp.NewService(stockapp.NewOrderer(replenisher), store.available, store.discontinued, notifier,
		stockapp.WithItemLocker(store.locker))
	service := stockobs.New(
		core,
		stockobs.WithLogger(logger),
		stockobs.WithTracer(instruments.Tracer("internal.stock.application")),
		stockobs.WithMeter(instruments.Meter("internal.stock.application")),
	)
	return &Stock{Service: service, Suppliers: directory, Idempotency: store.idempotency, Persisted: store.persisted}, cleanup, nil
}

type storage struct {
	available    stockports.Catalogue
	discontinued stockports.Catalogue
	idempotency  stockports.IdempotencyStore
	locker       stockports.ItemLocker
	persisted    bool
}

func buildStorage(ctx context.Context, cfg Config, logger *slog.Logger, directory stockports.SupplierDirectory) (storage, func()) {
	inMemory := storage{
		available:    stockmemory.NewCatalogue(),
		discontinued: stockmemory.NewCatalogue(),
		idempotency:  stockmemory.NewIdempotencyStore(),
	}
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory catalogues")
		return inMemory, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return inMemory, func() {}
	}
	closeDB := closer(db)
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate stock schema, falling back to memory", slog.String("error", err.Error()))
		closeDB()
		return inMemory, func() {}
	}
	logger.Info("stock catalogues configured with postgres")
	return storage{
		available:    stockpostgres.NewCatalogue(db, stockpostgres.CatalogueAvailable, directory),
		discontinued: stockpostgres.NewCatalogue(db, stockpostgres.CatalogueDiscontinued, directory),
		idempotency:  stockpostgres.NewIdempotencyStore(db),
		locker:       stockpostgres.NewItemLocker(db),
		persisted:    true,
	}, closeDB
}

func buildNotifier(ctx context.Context, cfg Config, logger *slog.Logger) (stockports.Notifier, func()) {
	logNotifier := notify.NewLogNotifier(logger, cfg.ManagerEmail)
	if cfg.AMQPURL == "" {
		return logNotifier, func() {}
	}
	conn, ch, err := rabbitmq.Connect(ctx, cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Warn("rabbitmq unavailable, notifications are only logged", slog.String("error", err.Error()))
		return logNotifier, func() {}
	}
	logger.Info("publishing notifications to rabbitmq", slog.String("exchange", cfg.AMQPExchange))
	amqpNotifier := notify.NewAMQPNotifier(ch, cfg.AMQPExchange, cfg.ManagerEmail)
	return notify.Fanout{logNotifier, amqpNotifier}, func() {
		_ = ch.Close()
		_ = conn.Close()
	}
}

func closer(db *gorm.DB) func() {
	sqlDB, err := db.DB()
	if err != nil {
		return func() {}
	}
	return func() { _ = sqlDB.Close() }
}
