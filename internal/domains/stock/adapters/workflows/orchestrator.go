package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/youstockit/internal/domains/stock/ports"
	stockworkflows "github.com/Apurer/youstockit/internal/platform/temporal/workflows/stock"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalStockWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineStockWorkflows)(nil)
)

// TemporalStockWorkflows starts stock workflows on a Temporal cluster.
type TemporalStockWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalStockWorkflows(c client.Client) *TemporalStockWorkflows {
	return &TemporalStockWorkflows{client: c, taskQueue: stockworkflows.StockTaskQueue}
}

// PlaceOrder starts the order placement workflow and waits for its result.
func (o *TemporalStockWorkflows) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (ports.Result, error) {
	if o == nil || o.client == nil {
		return ports.Result{}, errors.New("temporal stock workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := o.startOptions(orderWorkflowID(cmd))
	options.WorkflowIDReusePolicy = enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY
	run, err := o.client.ExecuteWorkflow(ctx, options, stockworkflows.OrderPlacementWorkflowName,
		stockworkflows.OrderPlacementWorkflowInput{Command: cmd, TraceID: traceComponent})
	if err != nil {
		if run, err = o.joinStarted(ctx, options.ID, err); err != nil {
			return ports.Result{}, err
		}
	}
	var res ports.Result
	if err := run.Get(ctx, &res); err != nil {
		return ports.Result{}, err
	}
	return res, nil
}

// SweepLowStock starts a one-off sweep workflow and waits for it.
func (o *TemporalStockWorkflows) SweepLowStock(ctx context.Context) (int, error) {
	if o == nil || o.client == nil {
		return 0, errors.New("temporal stock workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := o.startOptions("stock-sweep-" + traceComponent)
	run, err := o.client.ExecuteWorkflow(ctx, options, stockworkflows.LowStockSweepWorkflowName,
		stockworkflows.LowStockSweepWorkflowInput{TraceID: traceComponent})
	if err != nil {
		if run, err = o.joinStarted(ctx, options.ID, err); err != nil {
			return 0, err
		}
	}
	var swept int
	if err := run.Get(ctx, &swept); err != nil {
		return 0, err
	}
	return swept, nil
}

func (o *TemporalStockWorkflows) startOptions(id string) client.StartWorkflowOptions {
	return client.StartWorkflowOptions{
		ID:                                       id,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
}

// orderWorkflowID names the workflow for one order. Orders sharing an idempotency key share
// a workflow, so a retry joins or replays the first run; every other order gets its own.
func orderWorkflowID(cmd ports.PlaceOrderCommand) string {
	if cmd.IdempotencyKey != "" {
		return fmt.Sprintf("stock-order-%d-%s", cmd.ItemID, cmd.IdempotencyKey)
	}
	return fmt.Sprintf("stock-order-%d-%s", cmd.ItemID, uuid.NewString())
}

// joinStarted follows a run that already exists under the same workflow ID instead of
// starting another.
func (o *TemporalStockWorkflows) joinStarted(ctx context.Context, workflowID string, err error) (client.WorkflowRun, error) {
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if !errors.As(err, &alreadyStarted) {
		return nil, err
	}
	return o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId), nil
}

// InlineStockWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineStockWorkflows struct {
	service ports.Service
}

func NewInlineStockWorkflows(service ports.Service) *InlineStockWorkflows {
	return &InlineStockWorkflows{service: service}
}

func (o *InlineStockWorkflows) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (ports.Result, error) {
	if o == nil || o.service == nil {
		return ports.Result{}, errors.New("inline stock workflows not configured")
	}
	return o.service.PlaceOrder(ctx, cmd.ItemID, cmd.BuyAmount)
}

func (o *InlineStockWorkflows) SweepLowStock(ctx context.Context) (int, error) {
	if o == nil || o.service == nil {
		return 0, errors.New("inline stock workflows not configured")
	}
	return o.service.SweepLowStock(ctx)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
