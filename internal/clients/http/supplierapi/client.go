package supplierapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

const ordersPath = "/orders"

// OrderRequest is the body POSTed to a supplier's stock server.
type OrderRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// OrderResponse is what the stock server answers for a single order line.
type OrderResponse struct {
	RequestedQuantity int    `json:"requestedQuantity"`
	ActualQuantity    int    `json:"actualQuantity"`
	Code              string `json:"code"`
}

var _ domain.Gateway = (*Client)(nil)

// Client talks to a supplier stock server over JSON/HTTP. Any transport failure or
// non-2xx status is returned as an error, which the replenisher retries like a
// communication error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the supplier client; a nil httpClient gets a traced default.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("supplier base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

func (c *Client) Order(ctx context.Context, order domain.SupplierOrder) (domain.SupplierResponse, error) {
	body, err := json.Marshal(OrderRequest{ItemID: order.ItemID, Quantity: order.Quantity})
	if err != nil {
		return domain.SupplierResponse{}, fmt.Errorf("encode supplier order: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return domain.SupplierResponse{}, fmt.Errorf("build supplier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SupplierResponse{}, fmt.Errorf("call supplier API: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return domain.SupplierResponse{}, fmt.Errorf("supplier API unexpected status %s: %s", res.Status, strings.TrimSpace(string(snippet)))
	}

	var payload OrderResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.SupplierResponse{}, fmt.Errorf("decode supplier response: %w", err)
	}
	return domain.SupplierResponse{
		RequestedQuantity: payload.RequestedQuantity,
		ActualQuantity:    payload.ActualQuantity,
		Code:              domain.ResponseCode(payload.Code),
	}, nil
}
