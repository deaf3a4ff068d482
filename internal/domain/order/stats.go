package order

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/uniblox-store/internal/domain/discount"
)

// Stats is the store-wide aggregate view served to administrators.
type Stats struct {
	TotalOrders         int64
	TotalItemsPurchased int64
	TotalPurchaseAmount decimal.Decimal // sum of net amounts
	TotalDiscountAmount decimal.Decimal
	AverageOrderValue   decimal.Decimal
	CodesIssued         int64
	CodesRedeemed       int64
}

// Aggregate recomputes statistics from the full ledger contents and the
// issued discount codes. It runs in time proportional to the inputs and has
// no side effects; callers recompute on every request.
func Aggregate(orders []Order, codes []discount.Code) Stats {
	s := Stats{
		TotalPurchaseAmount: decimal.Zero,
		TotalDiscountAmount: decimal.Zero,
		AverageOrderValue:   decimal.Zero,
	}

	for i := range orders {
		o := &orders[i]
		s.TotalOrders++
		s.TotalItemsPurchased += o.ItemCount()
		s.TotalPurchaseAmount = s.TotalPurchaseAmount.Add(o.Net)
		s.TotalDiscountAmount = s.TotalDiscountAmount.Add(o.DiscountAmount)
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalPurchaseAmount.
			Div(decimal.NewFromInt(s.TotalOrders)).
			Round(2)
	}

	for _, c := range codes {
		s.CodesIssued++
		if c.Used {
			s.CodesRedeemed++
		}
	}
	return s
}
