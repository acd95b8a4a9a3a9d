// Package errors renders YouStockIt failures as RFC 7807 problem details.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem. Extension members are written next to the
// standard members, as the RFC requires, rather than nested.
type ProblemDetail struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

func (p ProblemDetail) WithInstance(instance string) ProblemDetail {
	p.Instance = instance
	return p
}

// WithExtension returns a copy carrying one more extension member. Standard member names
// are ignored.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	if _, reserved := standardMembers[key]; reserved {
		return p
	}
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

var standardMembers = map[string]struct{}{"type": {}, "title": {}, "status": {}, "detail": {}, "instance": {}}

func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		body[k] = v
	}
	body["type"] = p.Type
	body["title"] = p.Title
	body["status"] = p.Status
	if p.Detail != "" {
		body["detail"] = p.Detail
	}
	if p.Instance != "" {
		body["instance"] = p.Instance
	}
	return json.Marshal(body)
}

func (p *ProblemDetail) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*p = ProblemDetail{}
	targets := map[string]any{
		"type": &p.Type, "title": &p.Title, "status": &p.Status, "detail": &p.Detail, "instance": &p.Instance,
	}
	for key, raw := range members {
		if target, ok := targets[key]; ok {
			if err := json.Unmarshal(raw, target); err != nil {
				return fmt.Errorf("problem member %q: %w", key, err)
			}
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("problem member %q: %w", key, err)
		}
		if p.Extensions == nil {
			p.Extensions = map[string]any{}
		}
		p.Extensions[key] = value
	}
	return nil
}

// Problem types served by the stock API.
const (
	TypeMalformedRequest    = "/problems/malformed-request"
	TypeInvalidStockItem    = "/problems/invalid-stock-item"
	TypeStockItemNotFound   = "/problems/stock-item-not-found"
	TypeDuplicateStockItem  = "/problems/duplicate-stock-item"
	TypeOutOfStock          = "/problems/out-of-stock"
	TypeInvalidQuantity     = "/problems/invalid-order-quantity"
	TypeIdempotencyKeyReuse = "/problems/idempotency-key-reused"
	TypeInternal            = "/problems/internal-error"
)

var (
	// ErrMalformedRequest covers unparsable bodies and path parameters.
	ErrMalformedRequest = ProblemDetail{Type: TypeMalformedRequest, Title: "Malformed Request", Status: http.StatusBadRequest}

	// ErrInvalidStockItem rejects an item that fails catalogue validation.
	ErrInvalidStockItem = ProblemDetail{Type: TypeInvalidStockItem, Title: "Invalid Stock Item", Status: http.StatusBadRequest}

	ErrStockItemNotFound = ProblemDetail{Type: TypeStockItemNotFound, Title: "Stock Item Not Found", Status: http.StatusNotFound}

	ErrDuplicateStockItem = ProblemDetail{Type: TypeDuplicateStockItem, Title: "Duplicate Stock Item", Status: http.StatusConflict}

	// ErrOutOfStock is an order against an item with nothing held.
	ErrOutOfStock = ProblemDetail{Type: TypeOutOfStock, Title: "Out Of Stock", Status: http.StatusConflict}

	// ErrInvalidQuantity is an order for more than is held, or for a negative amount.
	ErrInvalidQuantity = ProblemDetail{Type: TypeInvalidQuantity, Title: "Invalid Order Quantity", Status: http.StatusUnprocessableEntity}

	// ErrIdempotencyKeyReused is an Idempotency-Key presented with a different order.
	ErrIdempotencyKeyReused = ProblemDetail{Type: TypeIdempotencyKeyReuse, Title: "Idempotency Key Reused", Status: http.StatusUnprocessableEntity}

	ErrInternal = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}
)
