package stockserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	stockmapper "github.com/Apurer/youstockit/internal/domains/stock/adapters/http/mapper"
	stockapp "github.com/Apurer/youstockit/internal/domains/stock/application"
	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	stockports "github.com/Apurer/youstockit/internal/domains/stock/ports"
)

// IdempotencyKeyHeader lets clients retry an order without selling twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// StockAPI wires HTTP transport with the stock catalogue service and workflows.
type StockAPI struct {
	service   stockports.Service
	workflows stockports.WorkflowOrchestrator
	suppliers stockports.SupplierDirectory
	orders    *stockapp.IdempotentOrders
}

// NewStockAPI creates a StockAPI. workflows may be nil, in which case orders run inline;
// without an idempotency store the Idempotency-Key header is ignored.
func NewStockAPI(service stockports.Service, workflows stockports.WorkflowOrchestrator, suppliers stockports.SupplierDirectory, idempotency stockports.IdempotencyStore) StockAPI {
	api := StockAPI{service: service, workflows: workflows, suppliers: suppliers}
	if idempotency != nil {
		api.orders = stockapp.NewIdempotentOrders(idempotency)
	}
	return api
}

// Get /v1/items
// Lists the available catalogue, optionally filtered by ?category=
func (api *StockAPI) ListItems(c *gin.Context) {
	items, err := api.service.AvailableItems(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockmapper.FromDomainItems(items))
}

// Post /v1/items
// Adds a stock item to the catalogue
func (api *StockAPI) AddItem(c *gin.Context) {
	var payload stockmapper.NewItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	var supplier *domain.Supplier
	if payload.SupplierID != nil {
		if api.suppliers == nil {
			respondServiceError(c, stockports.ErrSupplierNotFound)
			return
		}
		found, err := api.suppliers.GetSupplier(c.Request.Context(), *payload.SupplierID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		supplier = found
	}
	item, err := stockmapper.ToDomainItem(payload, supplier)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	res, err := api.service.AddItem(c.Request.Context(), item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondResult(c, http.StatusCreated, res)
}

// Delete /v1/items/:itemId
// Removes a stock item from the catalogue
func (api *StockAPI) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	res, err := api.service.DeleteItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondResult(c, http.StatusOK, res)
}

// Post /v1/items/:itemId/orders
// Places a customer order against an item; retries carrying the same Idempotency-Key are replayed
func (api *StockAPI) PlaceOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload stockmapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	cmd := stockports.PlaceOrderCommand{ItemID: id, BuyAmount: *payload.Quantity, IdempotencyKey: key}
	res, replayed, err := api.orders.Place(c.Request.Context(), key, cmd, api.placeOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if replayed {
		c.Header("Idempotent-Replayed", "true")
	}
	respondResult(c, http.StatusOK, res)
}

func (api *StockAPI) placeOrder(ctx context.Context, cmd stockports.PlaceOrderCommand) (stockports.Result, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, cmd)
	}
	return api.service.PlaceOrder(ctx, cmd.ItemID, cmd.BuyAmount)
}

// Get /v1/discontinued-items
// Lists items that sold out after their supplier stopped stocking them
func (api *StockAPI) ListDiscontinuedItems(c *gin.Context) {
	items, err := api.service.DiscontinuedItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockmapper.FromDomainItems(items))
}

// Get /v1/profit
// Reports profit across available and discontinued items
func (api *StockAPI) GetProfit(c *gin.Context) {
	total, err := api.service.CalculateProfit(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockmapper.FromProfit(total))
}

// Post /v1/restock-sweeps
// Retries replenishment for items left below their threshold
func (api *StockAPI) SweepLowStock(c *gin.Context) {
	var (
		swept int
		err   error
	)
	if api.workflows != nil {
		swept, err = api.workflows.SweepLowStock(c.Request.Context())
	} else {
		swept, err = api.service.SweepLowStock(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockmapper.SweepReport{Replenished: swept})
}

// Get /v1/suppliers
// Lists the suppliers items can be ordered from
func (api *StockAPI) ListSuppliers(c *gin.Context) {
	if api.suppliers == nil {
		c.JSON(http.StatusOK, []stockmapper.Supplier{})
		return
	}
	list, err := api.suppliers.ListSuppliers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]stockmapper.Supplier, 0, len(list))
	for _, s := range list {
		out = append(out, stockmapper.FromDomainSupplier(s))
	}
	c.JSON(http.StatusOK, out)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, err)
		return 0, false
	}
	return id, true
}

func outcomeBody(res stockports.Result) stockmapper.Outcome {
	return stockmapper.FromResult(res)
}
