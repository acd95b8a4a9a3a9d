package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the stock catalogue and order idempotency keys.
// Adapters do not automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&stockItemRecord{}, &orderIdempotencyRecord{})
}

// Stock item schema mirrors the stock Postgres adapter.
type stockItemRecord struct {
	Catalogue            string          `gorm:"primaryKey;column:catalogue;type:varchar(16)"`
	ID                   int64           `gorm:"primaryKey;column:id;autoIncrement:false"`
	Name                 string          `gorm:"column:name;size:100"`
	Category             string          `gorm:"column:category;index:idx_stock_items_category"`
	Description          string          `gorm:"column:description;size:500"`
	MinimumOrderQuantity *int            `gorm:"column:minimum_order_quantity"`
	Quantity             *int            `gorm:"column:quantity"`
	OrderAmount          *int            `gorm:"column:order_amount"`
	BuyingPrice          decimal.Decimal `gorm:"column:buying_price;type:numeric(14,4)"`
	SellingPrice         decimal.Decimal `gorm:"column:selling_price;type:numeric(14,4)"`
	NumTimesSold         int             `gorm:"column:num_times_sold"`
	Discontinued         bool            `gorm:"column:discontinued"`
	SupplierID           *int64          `gorm:"column:supplier_id;index"`
	CreatedAt            time.Time       `gorm:"column:created_at"`
	UpdatedAt            time.Time       `gorm:"column:updated_at"`
}

func (stockItemRecord) TableName() string { return "stock_items" }

// Idempotency key schema mirrors the stock Postgres idempotency store.
type orderIdempotencyRecord struct {
	Key             string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash     string    `gorm:"column:request_hash;size:128"`
	ItemID          int64     `gorm:"column:item_id"`
	ResultSucceeded bool      `gorm:"column:result_succeeded"`
	ResultMessage   string    `gorm:"column:result_message"`
	ResultOutcome   string    `gorm:"column:result_outcome;size:32"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }
