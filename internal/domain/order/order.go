package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/uniblox-store/internal/domain/cart"
)

// Order is one completed checkout: an immutable snapshot of the cart at the
// moment of purchase together with the amounts that were charged.
type Order struct {
	ID             int64
	Items          []cart.LineItem
	Gross          decimal.Decimal
	DiscountCode   string
	DiscountAmount decimal.Decimal
	Net            decimal.Decimal
	CreatedAt      time.Time
}

// ItemCount returns the total quantity across all line items.
func (o *Order) ItemCount() int64 {
	var n int64
	for _, li := range o.Items {
		n += int64(li.Quantity)
	}
	return n
}

// Ledger is the append-only record of completed orders and the source of
// truth for order counting and statistics.
type Ledger interface {
	// Append assigns the next sequential order ID (strictly increasing,
	// starting at 1), stamps the creation time, and stores the order. It
	// returns the stored order and the total number of completed orders
	// after the append. Failed checkouts never reach Append, so IDs have no
	// gaps.
	Append(ctx context.Context, o Order) (*Order, int64, error)
	// List returns all orders in append order.
	List(ctx context.Context) ([]Order, error)
	// Count returns the number of completed orders.
	Count(ctx context.Context) (int64, error)
}
