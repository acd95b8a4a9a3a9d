package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	stockports "github.com/Apurer/youstockit/internal/domains/stock/ports"
	stockactivities "github.com/Apurer/youstockit/internal/platform/temporal/activities/stock"
)

type recordingService struct {
	orders []stockports.PlaceOrderCommand
	err    error
}

func (s *recordingService) AddItem(context.Context, *domain.StockItem) (stockports.Result, error) {
	return stockports.Result{}, nil
}

func (s *recordingService) PlaceOrder(_ context.Context, id int64, buyAmount int) (stockports.Result, error) {
	s.orders = append(s.orders, stockports.PlaceOrderCommand{ItemID: id, BuyAmount: buyAmount})
	if s.err != nil {
		return stockports.Result{}, s.err
	}
	return stockports.Result{Succeeded: true, Message: "Order placed successfully.", Outcome: stockports.OutcomeOK}, nil
}

func (s *recordingService) DeleteItem(context.Context, int64) (stockports.Result, error) {
	return stockports.Result{}, nil
}

func (s *recordingService) CalculateProfit(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *recordingService) AvailableItems(context.Context, string) ([]*domain.StockItem, error) {
	return nil, nil
}

func (s *recordingService) DiscontinuedItems(context.Context) ([]*domain.StockItem, error) {
	return nil, nil
}

func (s *recordingService) SweepLowStock(context.Context) (int, error) {
	return 3, s.err
}

func newEnv(t *testing.T, svc stockports.Service) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(OrderPlacementWorkflow)
	env.RegisterWorkflow(LowStockSweepWorkflow)
	acts := stockactivities.NewActivities(svc)
	env.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: stockactivities.PlaceOrderActivityName})
	env.RegisterActivityWithOptions(acts.SweepLowStock, activity.RegisterOptions{Name: stockactivities.SweepLowStockActivityName})
	return env
}

func TestOrderPlacementWorkflow(t *testing.T) {
	svc := &recordingService{}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{
		Command: stockports.PlaceOrderCommand{ItemID: 4, BuyAmount: 31},
		TraceID: "trace-1",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var res stockports.Result
	require.NoError(t, env.GetWorkflowResult(&res))
	require.True(t, res.Succeeded)
	require.Equal(t, stockports.OutcomeOK, res.Outcome)
	require.Equal(t, []stockports.PlaceOrderCommand{{ItemID: 4, BuyAmount: 31}}, svc.orders)
}

func TestOrderPlacementWorkflow_DoesNotRetryActivity(t *testing.T) {
	svc := &recordingService{err: errors.New("catalogue offline")}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{
		Command: stockports.PlaceOrderCommand{ItemID: 4, BuyAmount: 1},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Len(t, svc.orders, 1)
}

func TestLowStockSweepWorkflow(t *testing.T) {
	env := newEnv(t, &recordingService{})

	env.ExecuteWorkflow(LowStockSweepWorkflow, LowStockSweepWorkflowInput{})

	require.True(t, env.IsWorkflowCompleted())
	var swept int
	require.NoError(t, env.GetWorkflowResult(&swept))
	require.Equal(t, 3, swept)
}
