//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/youstockit/test/pact"
)

type outcomePayload struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

type profitPayload struct {
	Total string `json:"total"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestStockPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.PortalName,
		Provider: pacttest.AppName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateCatalogueHasItem).
		UponReceiving("an order for an item in stock").
		WithRequest(http.MethodPost, fmt.Sprintf("/v1/items/%d/orders", pacttest.ExistingItemID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"quantity": 5})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"succeeded": true,
				"message":   matchers.Like("Order placed successfully."),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogueEmpty).
		UponReceiving("an order for an item that is not listed").
		WithRequest(http.MethodPost, fmt.Sprintf("/v1/items/%d/orders", pacttest.MissingItemID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"quantity": 1})
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/stock-item-not-found"),
				"title":  matchers.S("Stock Item Not Found"),
				"status": matchers.Like(http.StatusNotFound),
				"detail": matchers.Like("Stock item with ID 404 does not exist."),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogueEmpty).
		UponReceiving("a request for the total profit").
		WithRequest(http.MethodGet, "/v1/profit").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"total": matchers.Term("0.00", `^-?\d+\.\d{2}$`),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		placed, err := client.PlaceOrder(ctx, pacttest.ExistingItemID, 5)
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if !placed.Succeeded {
			return fmt.Errorf("expected order to succeed, got %+v", placed)
		}

		if _, err := client.PlaceOrder(ctx, pacttest.MissingItemID, 1); err == nil {
			return fmt.Errorf("expected 404 for item %d", pacttest.MissingItemID)
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %v", err)
		}

		profit, err := client.Profit(ctx)
		if err != nil {
			return fmt.Errorf("profit: %w", err)
		}
		if profit.Total == "" {
			return fmt.Errorf("expected a profit total")
		}
		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *portalClient) PlaceOrder(ctx context.Context, itemID int64, quantity int) (*outcomePayload, error) {
	body, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/items/%d/orders", c.baseURL, itemID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out outcomePayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *portalClient) Profit(ctx context.Context) (*profitPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/profit", nil)
	if err != nil {
		return nil, err
	}
	var out profitPayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *portalClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		return apiError{status: res.StatusCode, title: problem.Title, detail: problem.Detail}
	}
	return json.NewDecoder(res.Body).Decode(out)
}
