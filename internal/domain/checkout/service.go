// Package checkout implements the checkout transaction: it converts the
// active cart into a finalized order, consuming at most one discount code and
// minting a new one on every Nth completed order.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/uniblox-store/internal/domain/cart"
	"github.com/xenking/uniblox-store/internal/domain/discount"
	"github.com/xenking/uniblox-store/internal/domain/order"
)

// ErrEmptyCart is returned when checkout is attempted with no line items.
var ErrEmptyCart = errors.New("cart is empty")

// Receipt summarizes a successful checkout.
type Receipt struct {
	OrderID         int64
	Items           []cart.LineItem
	Gross           decimal.Decimal
	DiscountApplied bool
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
	NewDiscountCode string
	Message         string
	CreatedAt       time.Time
}

// Config controls the discount-issuance policy.
type Config struct {
	// IssueEvery mints a fresh discount code when the completed order count
	// is a multiple of this interval.
	IssueEvery int64
	// Percent is the percentage carried by auto-minted codes.
	Percent decimal.Decimal
}

// Service executes checkouts. The whole read-compute-write sequence runs
// under one mutex so that concurrent checkouts serialize: two of them can
// never both redeem the same code, and the Nth-order counter can neither
// double-count nor skip.
type Service struct {
	cfg    Config
	carts  cart.Store
	codes  discount.Registry
	ledger order.Ledger

	mu sync.Mutex
}

// NewService creates a checkout Service. Zero config fields fall back to the
// defaults: a code every 5th order, at 10%.
func NewService(cfg Config, carts cart.Store, codes discount.Registry, ledger order.Ledger) *Service {
	if cfg.IssueEvery <= 0 {
		cfg.IssueEvery = 5
	}
	if !cfg.Percent.IsPositive() {
		cfg.Percent = decimal.NewFromInt(10)
	}
	return &Service{
		cfg:    cfg,
		carts:  carts,
		codes:  codes,
		ledger: ledger,
	}
}

// Checkout drains the cart into a new order. code may be empty; when present
// it is normalized and redeemed, failing with discount.ErrInvalidCode if it
// is unknown or spent.
//
// All validation happens before the first mutation and every mutation after
// it is infallible for the in-memory stores, so a failed checkout leaves the
// cart, the ledger, and the registry exactly as they were.
func (s *Service) Checkout(ctx context.Context, code string) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.carts.Items(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read cart")
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	gross := cart.Subtotal(items).Round(2)

	var (
		redeemed       *discount.Code
		discountAmount = decimal.Zero
	)
	if code = discount.Normalize(code); code != "" {
		redeemed, err = s.codes.Redeem(ctx, code)
		if err != nil {
			return nil, err
		}
		discountAmount = redeemed.AmountOff(gross)
	}
	net := gross.Sub(discountAmount)

	o := order.Order{
		Items:          items,
		Gross:          gross,
		DiscountAmount: discountAmount,
		Net:            net,
	}
	if redeemed != nil {
		o.DiscountCode = redeemed.Code
	}

	stored, completed, err := s.ledger.Append(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "append order")
	}

	if err := s.carts.Clear(ctx); err != nil {
		return nil, errors.Wrap(err, "clear cart")
	}

	receipt := &Receipt{
		OrderID:         stored.ID,
		Items:           stored.Items,
		Gross:           gross,
		DiscountApplied: redeemed != nil,
		DiscountAmount:  discountAmount,
		Total:           net,
		Message:         "Order placed successfully!",
		CreatedAt:       stored.CreatedAt,
	}

	// The mint decision derives from the post-append count, inside the same
	// critical section as the append.
	if completed%s.cfg.IssueEvery == 0 {
		minted, err := s.codes.Issue(ctx, s.cfg.Percent, completed)
		if err != nil {
			return nil, errors.Wrap(err, "issue discount code")
		}
		receipt.NewDiscountCode = minted.Code
		receipt.Message += fmt.Sprintf(" You've earned a discount code: %s", minted.Code)
	}

	return receipt, nil
}
