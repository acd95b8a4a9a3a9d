package domain

import (
	"errors"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinNameLength        = 5
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	// PriceScale is the number of decimal places a price may carry.
	PriceScale = 4
)

var (
	ErrInvalidID                   = errors.New("stock item id must be greater than zero")
	ErrInvalidName                 = errors.New("name must be between 5 and 100 characters long (inclusive)")
	ErrInvalidDescription          = errors.New("description must be at most 500 characters long")
	ErrInvalidMinimumOrderQuantity = errors.New("minimum order quantity must be at least 0")
	ErrInvalidQuantity             = errors.New("item quantity must be at least 0")
	ErrInvalidOrderAmount          = errors.New("order amount must be at least 1")
	ErrInvalidPrices               = errors.New("buying price must be positive and selling price must not be lower than buying price")
	ErrInvalidPricePrecision       = errors.New("prices must have at most 4 decimal places")
	ErrIncomplete                  = errors.New("stock item is missing required fields")
)

// StockItem is the sellable catalogue entry. Quantities left nil have not been configured yet.
type StockItem struct {
	ID                   int64
	Name                 string
	Category             string
	Description          string
	MinimumOrderQuantity *int
	Quantity             *int
	OrderAmount          *int
	BuyingPrice          decimal.Decimal
	SellingPrice         decimal.Decimal
	NumTimesSold         int
	Discontinued         bool
	Supplier             *Supplier
}

// NewStockItem creates an item with every quantity unset.
func NewStockItem(id int64) (*StockItem, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return &StockItem{ID: id}, nil
}

// Rename enforces the name length bounds, counted in characters.
func (i *StockItem) Rename(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	i.Name = name
	return nil
}

func (i *StockItem) UpdateCategory(category string) {
	i.Category = category
}

func (i *StockItem) UpdateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return ErrInvalidDescription
	}
	i.Description = desc
	return nil
}

func (i *StockItem) SetMinimumOrderQuantity(qty int) error {
	if qty < 0 {
		return ErrInvalidMinimumOrderQuantity
	}
	i.MinimumOrderQuantity = &qty
	return nil
}

// SetQuantity may place the held quantity below the threshold; that is what triggers a reorder.
func (i *StockItem) SetQuantity(qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	i.Quantity = &qty
	return nil
}

func (i *StockItem) SetOrderAmount(amount int) error {
	if amount < 1 {
		return ErrInvalidOrderAmount
	}
	i.OrderAmount = &amount
	return nil
}

func (i *StockItem) SetPrices(buying, selling decimal.Decimal) error {
	if err := checkPrices(buying, selling); err != nil {
		return err
	}
	i.BuyingPrice = buying
	i.SellingPrice = selling
	return nil
}

func (i *StockItem) AssignSupplier(s *Supplier) {
	i.Supplier = s
}

// HeldQuantity reports the stock on hand, treating an unset quantity as none.
func (i *StockItem) HeldQuantity() int {
	if i.Quantity == nil {
		return 0
	}
	return *i.Quantity
}

// Threshold reports the reorder threshold and whether one was configured.
func (i *StockItem) Threshold() (int, bool) {
	if i.MinimumOrderQuantity == nil {
		return 0, false
	}
	return *i.MinimumOrderQuantity, true
}

// NeedsRestock is true when a positive threshold is configured and stock sits below it.
// A threshold of 0 means the item is never restocked.
func (i *StockItem) NeedsRestock() bool {
	threshold, ok := i.Threshold()
	if !ok || threshold == 0 {
		return false
	}
	return i.HeldQuantity() < threshold
}

// ShouldRetire is true once an item that will never be restocked has sold out.
func (i *StockItem) ShouldRetire() bool {
	threshold, ok := i.Threshold()
	return ok && threshold == 0 && i.HeldQuantity() == 0
}

// Sell removes qty from stock and counts it as sold. Callers validate qty first.
func (i *StockItem) Sell(qty int) {
	remaining := i.HeldQuantity() - qty
	i.Quantity = &remaining
	i.NumTimesSold += qty
}

// Restock adds delivered units; negative deliveries are ignored.
func (i *StockItem) Restock(qty int) {
	if qty < 0 {
		qty = 0
	}
	total := i.HeldQuantity() + qty
	i.Quantity = &total
}

// Discontinue permanently stops replenishment for the item.
func (i *StockItem) Discontinue() {
	zero := 0
	i.MinimumOrderQuantity = &zero
	i.Discontinued = true
}

// Margin is the profit earned on a single unit.
func (i *StockItem) Margin() decimal.Decimal {
	return i.SellingPrice.Sub(i.BuyingPrice)
}

// Profit is the margin earned over every unit sold so far.
func (i *StockItem) Profit() decimal.Decimal {
	return i.Margin().Mul(decimal.NewFromInt(int64(i.NumTimesSold)))
}

// Validate checks the item is fully configured before it enters a catalogue.
func (i *StockItem) Validate() error {
	if i.ID <= 0 {
		return ErrInvalidID
	}
	n := utf8.RuneCountInString(i.Name)
	if n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(i.Description) > MaxDescriptionLength {
		return ErrInvalidDescription
	}
	if i.Quantity == nil || i.MinimumOrderQuantity == nil || i.OrderAmount == nil {
		return ErrIncomplete
	}
	if *i.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if *i.MinimumOrderQuantity < 0 {
		return ErrInvalidMinimumOrderQuantity
	}
	if *i.OrderAmount < 1 {
		return ErrInvalidOrderAmount
	}
	return checkPrices(i.BuyingPrice, i.SellingPrice)
}

func checkPrices(buying, selling decimal.Decimal) error {
	if !buying.IsPositive() || selling.LessThan(buying) {
		return ErrInvalidPrices
	}
	if !buying.Equal(buying.Truncate(PriceScale)) || !selling.Equal(selling.Truncate(PriceScale)) {
		return ErrInvalidPricePrecision
	}
	return nil
}

// Clone returns a copy that shares only the supplier reference.
func (i *StockItem) Clone() *StockItem {
	if i == nil {
		return nil
	}
	c := *i
	c.MinimumOrderQuantity = cloneInt(i.MinimumOrderQuantity)
	c.Quantity = cloneInt(i.Quantity)
	c.OrderAmount = cloneInt(i.OrderAmount)
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
