package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

var _ ports.SupplierDirectory = (*Suppliers)(nil)

// Suppliers is a fixed in-memory supplier directory.
type Suppliers struct {
	mu        sync.RWMutex
	suppliers map[int64]*domain.Supplier
}

func NewSuppliers(suppliers ...*domain.Supplier) *Suppliers {
	dir := &Suppliers{suppliers: make(map[int64]*domain.Supplier, len(suppliers))}
	for _, s := range suppliers {
		if s != nil {
			dir.suppliers[s.ID] = s
		}
	}
	return dir
}

// GetSupplier returns the shared supplier instance so its gateway state is kept across items.
func (d *Suppliers) GetSupplier(_ context.Context, id int64) (*domain.Supplier, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.suppliers[id]
	if !ok {
		return nil, ports.ErrSupplierNotFound
	}
	return s, nil
}

func (d *Suppliers) ListSuppliers(_ context.Context) ([]*domain.Supplier, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list := make([]*domain.Supplier, 0, len(d.suppliers))
	for _, s := range d.suppliers {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
