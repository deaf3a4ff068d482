package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/uniblox-store/internal/domain/cart"
)

func line(productID int64, quantity int) cart.LineItem {
	return cart.LineItem{
		ProductID: productID,
		Price:     decimal.NewFromInt(10),
		Quantity:  quantity,
	}
}

func TestCartStore_AddMergesSameProduct(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	_, err := s.Add(ctx, line(1, 2))
	require.NoError(t, err)
	items, err := s.Add(ctx, line(1, 3))
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartStore_PreservesInsertionOrder(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		_, err := s.Add(ctx, line(id, 1))
		require.NoError(t, err)
	}
	// Bumping an existing line must not move it.
	items, err := s.Add(ctx, line(3, 1))
	require.NoError(t, err)

	ids := make([]int64, len(items))
	for i, li := range items {
		ids[i] = li.ProductID
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestCartStore_RemoveMiddleKeepsIndexConsistent(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := s.Add(ctx, line(id, 1))
		require.NoError(t, err)
	}

	items, err := s.Remove(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// The lines after the removed one must still be addressable.
	items, err = s.SetQuantity(ctx, 3, 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[1].ProductID)
	assert.Equal(t, 7, items[1].Quantity)
}

func TestCartStore_SetQuantity(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	_, err := s.SetQuantity(ctx, 1, 2)
	require.ErrorIs(t, err, cart.ErrItemNotFound)

	_, err = s.Add(ctx, line(1, 5))
	require.NoError(t, err)

	items, err := s.SetQuantity(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, items, "zero quantity removes the line")
}

func TestCartStore_RemoveAbsentIsNoop(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	_, err := s.Add(ctx, line(1, 1))
	require.NoError(t, err)

	items, err := s.Remove(ctx, 99)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartStore_Clear(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	_, err := s.Add(ctx, line(1, 1))
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx))

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The store is reusable after clearing.
	items, err = s.Add(ctx, line(2, 1))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartStore_SnapshotIsolation(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	_, err := s.Add(ctx, line(1, 1))
	require.NoError(t, err)

	snap, err := s.Items(ctx)
	require.NoError(t, err)
	snap[0].Quantity = 99

	items, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity, "callers must not be able to mutate stored items")
}

func TestCartStore_ConcurrentAdds(t *testing.T) {
	s := NewCartStore()
	ctx := context.Background()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				if _, err := s.Add(ctx, line(1, 1)); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	items, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, workers*perWorker, items[0].Quantity)
}
