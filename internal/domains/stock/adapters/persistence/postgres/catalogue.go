package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

const (
	CatalogueAvailable    = "available"
	CatalogueDiscontinued = "discontinued"
)

var _ ports.Catalogue = (*Catalogue)(nil)

// Catalogue persists one named catalogue of stock items in PostgreSQL using GORM. The
// available and discontinued catalogues share a table and are told apart by a
// discriminator column. Caller manages DB lifecycle and runs migrations.
type Catalogue struct {
	db        *gorm.DB
	name      string
	suppliers ports.SupplierDirectory
}

// NewCatalogue binds the catalogue called name. Supplier references are resolved through
// suppliers when items are loaded.
func NewCatalogue(db *gorm.DB, name string, suppliers ports.SupplierDirectory) *Catalogue {
	return &Catalogue{db: db, name: name, suppliers: suppliers}
}

// itemRecord maps the stock item aggregate to a relational table.
type itemRecord struct {
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

func (itemRecord) TableName() string { return "stock_items" }

// Add inserts a new item, failing with ports.ErrAlreadyExists when the id is taken.
func (c *Catalogue) Add(ctx context.Context, item *domain.StockItem) error {
	if err := c.ensureDB(); err != nil {
		return err
	}
	if item == nil {
		return errors.New("stock item is nil")
	}
	record := c.toRecord(item)
	result := c.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrAlreadyExists
	}
	return nil
}

// Save overwrites the stored state of an existing item.
func (c *Catalogue) Save(ctx context.Context, item *domain.StockItem) error {
	if err := c.ensureDB(); err != nil {
		return err
	}
	if item == nil {
		return errors.New("stock item is nil")
	}
	record := c.toRecord(item)
	result := c.conn(ctx).
		Model(&itemRecord{}).
		Where("catalogue = ? AND id = ?", c.name, item.ID).
		Updates(map[string]any{
			"name":                   record.Name,
			"category":               record.Category,
			"description":            record.Description,
			"minimum_order_quantity": record.MinimumOrderQuantity,
			"quantity":               record.Quantity,
			"order_amount":           record.OrderAmount,
			"buying_price":           record.BuyingPrice,
			"selling_price":          record.SellingPrice,
			"num_times_sold":         record.NumTimesSold,
			"discontinued":           record.Discontinued,
			"supplier_id":            record.SupplierID,
			"updated_at":             gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Remove deletes an item by identifier.
func (c *Catalogue) Remove(ctx context.Context, id int64) error {
	if err := c.ensureDB(); err != nil {
		return err
	}
	result := c.conn(ctx).
		Where("catalogue = ? AND id = ?", c.name, id).
		Delete(&itemRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// GetByID fetches an item by identifier.
func (c *Catalogue) GetByID(ctx context.Context, id int64) (*domain.StockItem, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var record itemRecord
	if err := c.conn(ctx).First(&record, "catalogue = ? AND id = ?", c.name, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return c.toDomain(ctx, record), nil
}

// List returns every item in the catalogue ordered by id.
func (c *Catalogue) List(ctx context.Context) ([]*domain.StockItem, error) {
	return c.find(ctx, c.conn(ctx).Where("catalogue = ?", c.name))
}

// ListByCategory returns the items whose category matches exactly.
func (c *Catalogue) ListByCategory(ctx context.Context, category string) ([]*domain.StockItem, error) {
	return c.find(ctx, c.conn(ctx).Where("catalogue = ? AND category = ?", c.name, category))
}

func (c *Catalogue) find(ctx context.Context, query *gorm.DB) ([]*domain.StockItem, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.StockItem, 0, len(records))
	for i := range records {
		items = append(items, c.toDomain(ctx, records[i]))
	}
	return items, nil
}

// conn joins the transaction an ItemLocker opened for ctx, if any.
func (c *Catalogue) conn(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return c.db.WithContext(ctx)
}

func (c *Catalogue) ensureDB() error {
	if c == nil || c.db == nil {
		return errors.New("postgres stock catalogue not configured")
	}
	return nil
}

func (c *Catalogue) toRecord(item *domain.StockItem) itemRecord {
	rec := itemRecord{
		Catalogue:            c.name,
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
		id := item.Supplier.ID
		rec.SupplierID = &id
	}
	return rec
}

func (c *Catalogue) toDomain(ctx context.Context, r itemRecord) *domain.StockItem {
	item := &domain.StockItem{
		ID:                   r.ID,
		Name:                 r.Name,
		Category:             r.Category,
		Description:          r.Description,
		MinimumOrderQuantity: r.MinimumOrderQuantity,
		Quantity:             r.Quantity,
		OrderAmount:          r.OrderAmount,
		BuyingPrice:          r.BuyingPrice,
		SellingPrice:         r.SellingPrice,
		NumTimesSold:         r.NumTimesSold,
		Discontinued:         r.Discontinued,
	}
	if r.SupplierID == nil || c.suppliers == nil {
		return item
	}
	supplier, err := c.suppliers.GetSupplier(ctx, *r.SupplierID)
	if err != nil {
		slog.Default().WarnContext(ctx, "stock item references unknown supplier",
			slog.Int64("item.id", r.ID), slog.Int64("supplier.id", *r.SupplierID), slog.String("error", err.Error()))
		return item
	}
	item.Supplier = supplier
	return item
}
