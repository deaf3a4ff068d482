package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for cart operations.
var (
	ErrItemNotFound    = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// LineItem is a single product entry in the cart. Price and Name are
// snapshots taken when the item was first added, so later catalog changes
// (or a checkout receipt read long after the fact) stay reproducible.
//
// A stored line item always has Quantity >= 1: dropping to zero removes the
// line entirely.
type LineItem struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// LineTotal returns Price * Quantity for this line.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// View is the cart contents plus computed totals, in insertion order.
type View struct {
	Items      []LineItem
	TotalItems int
	Subtotal   decimal.Decimal
}

// Subtotal returns the sum of line totals across items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

// Store holds the line items of the single active cart.
//
// Implementations must enforce one line item per product and keep every
// mutation atomic with respect to concurrent mutations and reads: callers
// always observe a consistent, non-torn set of items. Mutating operations
// return the items as they stand after the change.
type Store interface {
	// Items returns a snapshot of the current line items in insertion order.
	Items(ctx context.Context) ([]LineItem, error)
	// Add inserts the line item, or increments the quantity of an existing
	// line for the same product.
	Add(ctx context.Context, item LineItem) ([]LineItem, error)
	// SetQuantity overwrites the quantity of an existing line. A quantity of
	// zero removes the line. Returns ErrItemNotFound when no line exists for
	// the product.
	SetQuantity(ctx context.Context, productID int64, quantity int) ([]LineItem, error)
	// Remove deletes the line for the product. Removing an absent product is
	// a no-op, not an error.
	Remove(ctx context.Context, productID int64) ([]LineItem, error)
	// Clear removes all line items.
	Clear(ctx context.Context) error
}
