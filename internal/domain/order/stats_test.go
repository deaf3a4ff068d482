package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/uniblox-store/internal/domain/cart"
	"github.com/xenking/uniblox-store/internal/domain/discount"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, nil)

	assert.Zero(t, s.TotalOrders)
	assert.Zero(t, s.TotalItemsPurchased)
	assert.True(t, s.TotalPurchaseAmount.IsZero())
	assert.True(t, s.TotalDiscountAmount.IsZero())
	assert.True(t, s.AverageOrderValue.IsZero())
	assert.Zero(t, s.CodesIssued)
	assert.Zero(t, s.CodesRedeemed)
}

func TestAggregate(t *testing.T) {
	orders := []Order{
		{
			ID: 1,
			Items: []cart.LineItem{
				{ProductID: 1, Quantity: 2},
				{ProductID: 2, Quantity: 1},
			},
			Gross: d("100.00"),
			Net:   d("100.00"),
		},
		{
			ID: 2,
			Items: []cart.LineItem{
				{ProductID: 1, Quantity: 1},
			},
			Gross:          d("50.00"),
			DiscountCode:   "SAVE10AAAA1111",
			DiscountAmount: d("5.00"),
			Net:            d("45.00"),
		},
	}
	codes := []discount.Code{
		{Code: "SAVE10AAAA1111", Used: true},
		{Code: "SAVE10BBBB2222"},
	}

	s := Aggregate(orders, codes)

	assert.Equal(t, int64(2), s.TotalOrders)
	assert.Equal(t, int64(4), s.TotalItemsPurchased)
	assert.True(t, s.TotalPurchaseAmount.Equal(d("145.00")), "purchases = %s", s.TotalPurchaseAmount)
	assert.True(t, s.TotalDiscountAmount.Equal(d("5.00")), "discounts = %s", s.TotalDiscountAmount)
	assert.True(t, s.AverageOrderValue.Equal(d("72.50")), "average = %s", s.AverageOrderValue)
	assert.Equal(t, int64(2), s.CodesIssued)
	assert.Equal(t, int64(1), s.CodesRedeemed)
}

func TestAggregate_AverageRounds(t *testing.T) {
	orders := []Order{
		{ID: 1, Net: d("10.00")},
		{ID: 2, Net: d("10.00")},
		{ID: 3, Net: d("10.01")},
	}

	s := Aggregate(orders, nil)
	assert.True(t, s.AverageOrderValue.Equal(d("10.00")), "average = %s", s.AverageOrderValue)
}

func TestItemCount(t *testing.T) {
	o := Order{Items: []cart.LineItem{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 2},
	}}
	assert.Equal(t, int64(5), o.ItemCount())
	assert.Zero(t, (&Order{}).ItemCount())
}
