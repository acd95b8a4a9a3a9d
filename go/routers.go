package stockserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers served by the router.
type ApiHandleFunctions struct {
	StockAPI StockAPI
}

// NewRouter returns a new gin engine with every route registered.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine registers the routes on an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	api := &handleFunctions.StockAPI
	return []Route{
		{"ListItems", http.MethodGet, "/v1/items", api.ListItems},
		{"AddItem", http.MethodPost, "/v1/items", api.AddItem},
		{"DeleteItem", http.MethodDelete, "/v1/items/:itemId", api.DeleteItem},
		{"PlaceOrder", http.MethodPost, "/v1/items/:itemId/orders", api.PlaceOrder},
		{"ListDiscontinuedItems", http.MethodGet, "/v1/discontinued-items", api.ListDiscontinuedItems},
		{"GetProfit", http.MethodGet, "/v1/profit", api.GetProfit},
		{"SweepLowStock", http.MethodPost, "/v1/restock-sweeps", api.SweepLowStock},
		{"ListSuppliers", http.MethodGet, "/v1/suppliers", api.ListSuppliers},
		{"Healthz", http.MethodGet, "/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) }},
	}
}
