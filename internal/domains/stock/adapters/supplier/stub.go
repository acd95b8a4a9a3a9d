package supplier

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

var _ domain.Gateway = (*Stub)(nil)

// Stub is a scriptable supplier stock server. It replays programmed responses in order and
// keeps returning the last one once the script runs out. Without a script it answers with a
// communication error, unless it was told to always succeed.
type Stub struct {
	mu            sync.Mutex
	responses     []domain.SupplierResponse
	next          int
	alwaysSucceed bool
	now           func() time.Time
	calls         []time.Time
	orders        []domain.SupplierOrder
}

func NewStub() *Stub {
	return &Stub{now: time.Now}
}

// NewAlwaysSucceedingStub fulfils every order in full.
func NewAlwaysSucceedingStub() *Stub {
	s := NewStub()
	s.alwaysSucceed = true
	return s
}

// WithClock replaces the clock used to timestamp calls.
func (s *Stub) WithClock(now func() time.Time) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
	return s
}

// AddResponse appends a response to the script.
func (s *Stub) AddResponse(requested, actual int, code domain.ResponseCode) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, domain.SupplierResponse{
		RequestedQuantity: requested,
		ActualQuantity:    actual,
		Code:              code,
	})
	return s
}

// AlwaysSucceed switches the stub to fulfilling every order with the requested quantity.
func (s *Stub) AlwaysSucceed() *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alwaysSucceed = true
	return s
}

func (s *Stub) Order(_ context.Context, order domain.SupplierOrder) (domain.SupplierResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, s.now())
	s.orders = append(s.orders, order)

	if s.alwaysSucceed {
		return domain.SupplierResponse{
			RequestedQuantity: order.Quantity,
			ActualQuantity:    order.Quantity,
			Code:              domain.CodeSuccess,
		}, nil
	}
	if len(s.responses) == 0 {
		return domain.SupplierResponse{RequestedQuantity: order.Quantity, Code: domain.CodeCommunicationError}, nil
	}
	resp := s.responses[s.next]
	if s.next < len(s.responses)-1 {
		s.next++
	}
	return resp, nil
}

// Calls reports how many orders the stub has received.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Orders returns the orders received so far.
func (s *Stub) Orders() []domain.SupplierOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SupplierOrder(nil), s.orders...)
}

// Intervals returns the time elapsed between consecutive calls.
func (s *Stub) Intervals() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) < 2 {
		return nil
	}
	out := make([]time.Duration, 0, len(s.calls)-1)
	for i := 1; i < len(s.calls); i++ {
		out = append(out, s.calls[i].Sub(s.calls[i-1]))
	}
	return out
}
