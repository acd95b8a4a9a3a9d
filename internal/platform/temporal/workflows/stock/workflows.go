package stock

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	stockports "github.com/Apurer/youstockit/internal/domains/stock/ports"
	stockactivities "github.com/Apurer/youstockit/internal/platform/temporal/activities/stock"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the order workflow.
	OrderPlacementWorkflowName = "stock.workflows.OrderPlacement"
	// LowStockSweepWorkflowName is the public identifier for registering the sweep workflow.
	LowStockSweepWorkflowName = "stock.workflows.LowStockSweep"
	// StockTaskQueue is consumed by the worker processing stock workflows.
	StockTaskQueue = "STOCK_ORDERS"
)

// OrderPlacementWorkflowInput carries a customer order into the workflow.
type OrderPlacementWorkflowInput struct {
	Command stockports.PlaceOrderCommand
	TraceID string
}

// LowStockSweepWorkflowInput identifies the sweep run.
type LowStockSweepWorkflowInput struct {
	TraceID string
}

// The activity sells stock, so it must run at most once. Supplier retries happen inside it,
// which bounds its runtime to a few delays plus gateway timeouts.
var placeOrderOptions = workflow.ActivityOptions{
	StartToCloseTimeout: time.Minute,
	RetryPolicy: &temporal.RetryPolicy{
		MaximumAttempts: 1,
	},
}

var sweepOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 10 * time.Minute,
	RetryPolicy: &temporal.RetryPolicy{
		MaximumAttempts: 1,
	},
}

// OrderPlacementWorkflow runs a customer order durably.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (stockports.Result, error) {
	logger := workflow.GetLogger(ctx)
	itemID := input.Command.ItemID
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "itemId", itemID)...)

	var res stockports.Result
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOrderOptions), stockactivities.PlaceOrderActivityName, input.Command).Get(ctx, &res)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "itemId", itemID, "error", err)...)
		return stockports.Result{}, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "itemId", itemID, "outcome", string(res.Outcome))...)
	return res, nil
}

// LowStockSweepWorkflow replenishes items left below threshold; schedule it with a cron spec
// to keep retrying suppliers that were unreachable.
func LowStockSweepWorkflow(ctx workflow.Context, input LowStockSweepWorkflowInput) (int, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("LowStockSweepWorkflow started", withTraceID(input.TraceID)...)

	var swept int
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, sweepOptions), stockactivities.SweepLowStockActivityName).Get(ctx, &swept)
	if err != nil {
		logger.Error("LowStockSweepWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return swept, err
	}
	logger.Info("LowStockSweepWorkflow completed", withTraceID(input.TraceID, "swept", swept)...)
	return swept, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
