package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/uniblox-store/internal/domain/discount"
)

// issueAttempts bounds collision retries when minting a code. With an 8-char
// suffix over 36 characters a second collision is already vanishingly rare.
const issueAttempts = 5

var _ discount.Registry = (*DiscountRegistry)(nil)

// DiscountRegistry is the in-memory discount code store. Redeem performs the
// lookup, the used check, and the mark in one critical section, so two
// concurrent checkouts can never both spend the same code.
type DiscountRegistry struct {
	gen discount.Generator

	mu    sync.Mutex
	codes map[string]*discount.Code
	order []string // issuance order, for List

	now func() time.Time
}

// NewDiscountRegistry creates an empty registry minting codes with gen.
func NewDiscountRegistry(gen discount.Generator) *DiscountRegistry {
	return &DiscountRegistry{
		gen:   gen,
		codes: make(map[string]*discount.Code),
		now:   time.Now,
	}
}

// Issue mints a new unused code, retrying on the rare code-string collision.
func (r *DiscountRegistry) Issue(_ context.Context, percent decimal.Decimal, afterOrder int64) (*discount.Code, error) {
	if err := discount.ValidatePercent(percent); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for range issueAttempts {
		s, err := r.gen.Generate()
		if err != nil {
			return nil, errors.Wrap(err, "generate code")
		}
		s = discount.Normalize(s)
		if _, taken := r.codes[s]; taken {
			continue
		}
		return r.storeLocked(s, percent, afterOrder), nil
	}
	return nil, errors.Errorf("could not mint a unique code in %d attempts", issueAttempts)
}

// Register stores an externally supplied code string as a new unused code.
func (r *DiscountRegistry) Register(_ context.Context, code string, percent decimal.Decimal) (*discount.Code, error) {
	if err := discount.ValidatePercent(percent); err != nil {
		return nil, err
	}
	code = discount.Normalize(code)
	if code == "" {
		return nil, discount.ErrInvalidCode
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.codes[code]; taken {
		return nil, discount.ErrCodeExists
	}
	return r.storeLocked(code, percent, 0), nil
}

// Redeem atomically validates and spends the code.
func (r *DiscountRegistry) Redeem(_ context.Context, code string) (*discount.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[discount.Normalize(code)]
	if !ok || c.Used {
		return nil, discount.ErrInvalidCode
	}
	c.Used = true

	cp := *c
	return &cp, nil
}

// Get returns the code without changing its state, or discount.ErrInvalidCode.
func (r *DiscountRegistry) Get(_ context.Context, code string) (*discount.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[discount.Normalize(code)]
	if !ok {
		return nil, discount.ErrInvalidCode
	}
	cp := *c
	return &cp, nil
}

// List returns every code ever issued, in issuance order.
func (r *DiscountRegistry) List(_ context.Context) ([]discount.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]discount.Code, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, *r.codes[s])
	}
	return out, nil
}

func (r *DiscountRegistry) storeLocked(code string, percent decimal.Decimal, afterOrder int64) *discount.Code {
	c := &discount.Code{
		Code:             code,
		Percent:          percent,
		IssuedAfterOrder: afterOrder,
		CreatedAt:        r.now().UTC(),
	}
	r.codes[code] = c
	r.order = append(r.order, code)

	cp := *c
	return &cp
}
