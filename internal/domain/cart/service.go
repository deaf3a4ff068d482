package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/uniblox-store/internal/domain/product"
)

// Service encapsulates cart business logic: catalog lookups, quantity
// validation, and building the cart view returned to clients.
type Service struct {
	products product.Repository
	store    Store
}

// NewService creates a cart Service backed by the given catalog and store.
func NewService(products product.Repository, store Store) *Service {
	return &Service{
		products: products,
		store:    store,
	}
}

// Add puts quantity units of the product into the cart, incrementing an
// existing line for the same product. The product's name and price are
// snapshotted from the catalog at this point.
func (s *Service) Add(ctx context.Context, productID int64, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %d", productID)
	}

	items, err := s.store.Add(ctx, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, errors.Wrap(err, "add to cart")
	}
	return buildView(items), nil
}

// Update overwrites the quantity of an existing cart line. Zero removes the
// line; a negative quantity fails validation and leaves the cart unchanged.
func (s *Service) Update(ctx context.Context, productID int64, quantity int) (*View, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	items, err := s.store.SetQuantity(ctx, productID, quantity)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, errors.Wrap(err, "update cart")
	}
	return buildView(items), nil
}

// Remove deletes the line for the product. Removing a product that is not in
// the cart is a no-op returning the unchanged cart.
func (s *Service) Remove(ctx context.Context, productID int64) (*View, error) {
	items, err := s.store.Remove(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "remove from cart")
	}
	return buildView(items), nil
}

// View returns the current cart contents without mutating anything.
func (s *Service) View(ctx context.Context) (*View, error) {
	items, err := s.store.Items(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read cart")
	}
	return buildView(items), nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

func buildView(items []LineItem) *View {
	total := 0
	for _, li := range items {
		total += li.Quantity
	}
	return &View{
		Items:      items,
		TotalItems: total,
		Subtotal:   Subtotal(items).Round(2),
	}
}
