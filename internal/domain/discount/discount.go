package discount

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCode is returned when a discount code is unknown or has
	// already been redeemed. The two cases deliberately share one sentinel:
	// callers must not be able to probe which codes exist.
	ErrInvalidCode = errors.New("invalid or already used discount code")
	// ErrCodeExists is returned when registering a code string that the
	// registry already holds.
	ErrCodeExists = errors.New("discount code already exists")
	// ErrInvalidPercent is returned for percentages outside (0, 100].
	ErrInvalidPercent = errors.New("percentage must be greater than 0 and at most 100")
)

var hundred = decimal.NewFromInt(100)

// Code is a single-use discount token. Percent is fixed at mint time so
// historical receipts stay reproducible from the ledger alone. Used flips
// false -> true exactly once, at the checkout that redeems the code.
type Code struct {
	Code             string
	Percent          decimal.Decimal
	Used             bool
	IssuedAfterOrder int64
	CreatedAt        time.Time
}

// AmountOff returns the discount this code grants on the given gross amount,
// rounded to two decimal places.
func (c *Code) AmountOff(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(c.Percent).Div(hundred).Round(2)
}

// Registry holds every discount code ever minted. Codes are never deleted.
type Registry interface {
	// Issue mints a new unused code with a fresh unique code string.
	Issue(ctx context.Context, percent decimal.Decimal, afterOrder int64) (*Code, error)
	// Register stores an externally supplied code string as a new unused
	// code. Returns ErrCodeExists when the code string is already taken.
	Register(ctx context.Context, code string, percent decimal.Decimal) (*Code, error)
	// Redeem atomically looks the code up, verifies it is unused, and marks
	// it used. Unknown and already-used codes both fail with ErrInvalidCode.
	// This is the only redemption path; there is no separate validate step
	// that could race with the mark.
	Redeem(ctx context.Context, code string) (*Code, error)
	// Get returns the code without changing its state.
	Get(ctx context.Context, code string) (*Code, error)
	// List returns all codes in issuance order.
	List(ctx context.Context) ([]Code, error)
}

// Normalize canonicalizes a human-entered code: surrounding whitespace is
// stripped and the code is uppercased, since the storefront accepts free-text
// input.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidatePercent checks that p is usable as a discount percentage.
func ValidatePercent(p decimal.Decimal) error {
	if !p.IsPositive() || p.GreaterThan(hundred) {
		return ErrInvalidPercent
	}
	return nil
}
