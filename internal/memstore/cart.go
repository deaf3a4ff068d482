package memstore

import (
	"context"
	"sync"

	"github.com/xenking/uniblox-store/internal/domain/cart"
)

var _ cart.Store = (*CartStore)(nil)

// CartStore holds the single active cart. Line items keep insertion order;
// the index map enforces one line per product. Every method holds mu for its
// full duration, so mutations are atomic and reads never observe a torn cart.
type CartStore struct {
	mu    sync.Mutex
	items []cart.LineItem
	index map[int64]int // product ID -> position in items
}

// NewCartStore creates an empty cart store.
func NewCartStore() *CartStore {
	return &CartStore{
		index: make(map[int64]int),
	}
}

// Items returns a snapshot of the current line items.
func (s *CartStore) Items(_ context.Context) ([]cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Add inserts the item or increments an existing line for the same product.
func (s *CartStore) Add(_ context.Context, item cart.LineItem) ([]cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[item.ProductID]; ok {
		s.items[pos].Quantity += item.Quantity
	} else {
		s.index[item.ProductID] = len(s.items)
		s.items = append(s.items, item)
	}
	return s.snapshotLocked(), nil
}

// SetQuantity overwrites an existing line's quantity; zero removes the line.
func (s *CartStore) SetQuantity(_ context.Context, productID int64, quantity int) ([]cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return nil, cart.ErrItemNotFound
	}
	if quantity == 0 {
		s.removeLocked(pos, productID)
	} else {
		s.items[pos].Quantity = quantity
	}
	return s.snapshotLocked(), nil
}

// Remove deletes the line for the product; absent products are a no-op.
func (s *CartStore) Remove(_ context.Context, productID int64) ([]cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[productID]; ok {
		s.removeLocked(pos, productID)
	}
	return s.snapshotLocked(), nil
}

// Clear removes all line items.
func (s *CartStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[int64]int)
	return nil
}

func (s *CartStore) removeLocked(pos int, productID int64) {
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, productID)
	for id, p := range s.index {
		if p > pos {
			s.index[id] = p - 1
		}
	}
}

func (s *CartStore) snapshotLocked() []cart.LineItem {
	out := make([]cart.LineItem, len(s.items))
	copy(out, s.items)
	return out
}
