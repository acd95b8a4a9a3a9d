package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

// Supplier is the HTTP representation of a supplier.
type Supplier struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// NewItem captures the payload for listing a new stock item. Quantities are pointers so a
// missing field is rejected instead of read as zero.
type NewItem struct {
	ID                   int64           `json:"id" binding:"required"`
	Name                 string          `json:"name" binding:"required"`
	Category             string          `json:"category,omitempty"`
	Description          string          `json:"description,omitempty"`
	MinimumOrderQuantity *int            `json:"minimumOrderQuantity"`
	Quantity             *int            `json:"quantity"`
	OrderAmount          *int            `json:"orderAmount"`
	BuyingPrice          decimal.Decimal `json:"buyingPrice"`
	SellingPrice         decimal.Decimal `json:"sellingPrice"`
	SupplierID           *int64          `json:"supplierId,omitempty"`
}

// Item is the HTTP representation of a stock item.
type Item struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Category             string          `json:"category,omitempty"`
	Description          string          `json:"description,omitempty"`
	MinimumOrderQuantity *int            `json:"minimumOrderQuantity,omitempty"`
	Quantity             *int            `json:"quantity,omitempty"`
	OrderAmount          *int            `json:"orderAmount,omitempty"`
	BuyingPrice          decimal.Decimal `json:"buyingPrice"`
	SellingPrice         decimal.Decimal `json:"sellingPrice"`
	NumTimesSold         int             `json:"numTimesSold"`
	Discontinued         bool            `json:"discontinued"`
	Supplier             *Supplier       `json:"supplier,omitempty"`
}

// OrderRequest is the body of a customer order. A missing quantity is rejected rather than
// read as an empty order.
type OrderRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// Outcome reports a catalogue operation back to the caller.
type Outcome struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
}

// Profit reports the total profit as a fixed two-decimal string.
type Profit struct {
	Total string `json:"total"`
}

// SweepReport is returned after a low stock sweep.
type SweepReport struct {
	Replenished int `json:"replenished"`
}

// ToDomainItem builds a stock item through the validated domain mutators.
func ToDomainItem(input NewItem, supplier *domain.Supplier) (*domain.StockItem, error) {
	item, err := domain.NewStockItem(input.ID)
	if err != nil {
		return nil, err
	}
	if err := item.Rename(input.Name); err != nil {
		return nil, err
	}
	item.UpdateCategory(input.Category)
	if err := item.UpdateDescription(input.Description); err != nil {
		return nil, err
	}
	if input.MinimumOrderQuantity != nil {
		if err := item.SetMinimumOrderQuantity(*input.MinimumOrderQuantity); err != nil {
			return nil, err
		}
	}
	if input.Quantity != nil {
		if err := item.SetQuantity(*input.Quantity); err != nil {
			return nil, err
		}
	}
	if input.OrderAmount != nil {
		if err := item.SetOrderAmount(*input.OrderAmount); err != nil {
			return nil, err
		}
	}
	if err := item.SetPrices(input.BuyingPrice, input.SellingPrice); err != nil {
		return nil, err
	}
	item.AssignSupplier(supplier)
	return item, nil
}

// FromDomainItem maps a domain item into its transport shape.
func FromDomainItem(item *domain.StockItem) Item {
	if item == nil {
		return Item{}
	}
	out := Item{
		ID:                   item.ID,
		Name:                 item.Name,
		Category:             item.Category,
		Description:          item.Description,
		MinimumOrderQuantity: item.MinimumOrderQuantity,
		Quantity:             item.Quantity,
		OrderAmount:          item.OrderAmount,
		BuyingPrice:          item.BuyingPrice,
		SellingPrice:         item.SellingPrice,
		NumTimesSold:         item.NumTimesSold,
		Discontinued:         item.Discontinued,
	}
	if item.Supplier != nil {
		s := FromDomainSupplier(item.Supplier)
		out.Supplier = &s
	}
	return out
}

func FromDomainItems(items []*domain.StockItem) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomainItem(item))
	}
	return out
}

func FromDomainSupplier(s *domain.Supplier) Supplier {
	return Supplier{ID: s.ID, Name: s.Name, Email: s.Email}
}

func FromResult(res ports.Result) Outcome {
	return Outcome{Succeeded: res.Succeeded, Message: res.Message}
}

func FromProfit(total decimal.Decimal) Profit {
	return Profit{Total: total.StringFixed(2)}
}
