package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

var _ ports.ItemLocker = (*ItemLocker)(nil)

type txKey struct{}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// ItemLocker serialises work on one item across every process sharing the database. It
// holds the available row with SELECT ... FOR UPDATE inside a transaction; catalogues
// called with the context handed to fn join that transaction.
type ItemLocker struct {
	db *gorm.DB
}

func NewItemLocker(db *gorm.DB) *ItemLocker {
	return &ItemLocker{db: db}
}

// LockItem commits when fn returns nil and rolls back otherwise. The transaction is not
// bound to ctx cancellation, so a sale completed under the lock is still committed after the
// caller goes away.
func (l *ItemLocker) LockItem(ctx context.Context, id int64, fn func(ctx context.Context) error) error {
	if l == nil || l.db == nil {
		return errors.New("postgres item locker not configured")
	}
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx)
	}
	return l.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&itemRecord{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("catalogue = ? AND id = ?", CatalogueAvailable, id).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
