package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

var _ ports.Catalogue = (*Catalogue)(nil)

// Catalogue is an in-memory stock item store.
type Catalogue struct {
	mu    sync.RWMutex
	items map[int64]*domain.StockItem
}

func NewCatalogue() *Catalogue {
	return &Catalogue{items: map[int64]*domain.StockItem{}}
}

func (c *Catalogue) Add(_ context.Context, item *domain.StockItem) error {
	if item == nil {
		return errors.New("stock item is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[item.ID]; ok {
		return ports.ErrAlreadyExists
	}
	c.items[item.ID] = item.Clone()
	return nil
}

// Save replaces a stored item.
func (c *Catalogue) Save(_ context.Context, item *domain.StockItem) error {
	if item == nil {
		return errors.New("stock item is nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[item.ID]; !ok {
		return ports.ErrNotFound
	}
	c.items[item.ID] = item.Clone()
	return nil
}

func (c *Catalogue) Remove(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(c.items, id)
	return nil
}

func (c *Catalogue) GetByID(_ context.Context, id int64) (*domain.StockItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return item.Clone(), nil
}

// List returns every item ordered by id.
func (c *Catalogue) List(_ context.Context) ([]*domain.StockItem, error) {
	return c.filter(func(*domain.StockItem) bool { return true }), nil
}

func (c *Catalogue) ListByCategory(_ context.Context, category string) ([]*domain.StockItem, error) {
	return c.filter(func(item *domain.StockItem) bool { return item.Category == category }), nil
}

func (c *Catalogue) filter(keep func(*domain.StockItem) bool) []*domain.StockItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]*domain.StockItem, 0, len(c.items))
	for _, item := range c.items {
		if keep(item) {
			list = append(list, item.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
