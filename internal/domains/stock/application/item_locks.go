package application

import (
	"context"
	"sync"

	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

var _ ports.ItemLocker = (*ItemLocks)(nil)

// ItemLocks serialises work per item id within one process.
type ItemLocks struct {
	mu    sync.Mutex
	locks map[int64]*itemLock
}

type itemLock struct {
	sem  chan struct{}
	refs int
}

func NewItemLocks() *ItemLocks {
	return &ItemLocks{locks: map[int64]*itemLock{}}
}

// LockItem runs fn once every earlier holder of id has finished. Waiting stops when ctx is done.
func (l *ItemLocks) LockItem(ctx context.Context, id int64, fn func(ctx context.Context) error) error {
	entry := l.acquire(id)
	defer l.release(id)
	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-entry.sem }()
	return fn(ctx)
}

func (l *ItemLocks) acquire(id int64) *itemLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &itemLock{sem: make(chan struct{}, 1)}
		l.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (l *ItemLocks) release(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := l.locks[id]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
}
