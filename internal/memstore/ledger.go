package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/xenking/uniblox-store/internal/domain/order"
)

var _ order.Ledger = (*OrderLedger)(nil)

// OrderLedger is the append-only in-memory order history. IDs are assigned
// from the slice length under the mutex, so they are strictly increasing with
// no gaps: an order that fails validation never reaches Append.
type OrderLedger struct {
	mu     sync.Mutex
	orders []order.Order

	now func() time.Time
}

// NewOrderLedger creates an empty ledger.
func NewOrderLedger() *OrderLedger {
	return &OrderLedger{now: time.Now}
}

// Append stores the order with the next sequential ID and returns it along
// with the post-append order count.
func (l *OrderLedger) Append(_ context.Context, o order.Order) (*order.Order, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o.ID = int64(len(l.orders)) + 1
	o.CreatedAt = l.now().UTC()
	l.orders = append(l.orders, o)

	stored := l.orders[len(l.orders)-1]
	return &stored, int64(len(l.orders)), nil
}

// List returns all completed orders in append order.
func (l *OrderLedger) List(_ context.Context) ([]order.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]order.Order, len(l.orders))
	copy(out, l.orders)
	return out, nil
}

// Count returns the number of completed orders.
func (l *OrderLedger) Count(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int64(len(l.orders)), nil
}
