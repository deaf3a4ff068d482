// Package handler exposes the storefront API over net/http. Handlers decode
// requests, delegate to the domain services, and map domain errors to HTTP
// status codes; no business logic lives here.
package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/uniblox-store/internal/domain/cart"
	"github.com/xenking/uniblox-store/internal/domain/checkout"
	"github.com/xenking/uniblox-store/internal/domain/discount"
	"github.com/xenking/uniblox-store/internal/domain/order"
	"github.com/xenking/uniblox-store/internal/domain/product"
)

// Handler implements the storefront HTTP API.
type Handler struct {
	products product.Repository
	cart     *cart.Service
	checkout *checkout.Service
	registry discount.Registry
	ledger   order.Ledger
}

// New constructs a Handler with the required domain dependencies.
func New(
	products product.Repository,
	cartSvc *cart.Service,
	checkoutSvc *checkout.Service,
	registry discount.Registry,
	ledger order.Ledger,
) *Handler {
	return &Handler{
		products: products,
		cart:     cartSvc,
		checkout: checkoutSvc,
		registry: registry,
		ledger:   ledger,
	}
}

// Routes returns the API route table mounted under /api/v1.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/products", h.listProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.getProduct)

	mux.HandleFunc("GET /api/v1/cart", h.viewCart)
	mux.HandleFunc("POST /api/v1/cart/add", h.addToCart)
	mux.HandleFunc("PUT /api/v1/cart/update", h.updateCart)
	mux.HandleFunc("DELETE /api/v1/cart/remove/{productID}", h.removeFromCart)
	mux.HandleFunc("DELETE /api/v1/cart", h.clearCart)

	mux.HandleFunc("POST /api/v1/checkout", h.placeOrder)

	mux.HandleFunc("GET /api/v1/admin/stats", h.stats)
	mux.HandleFunc("GET /api/v1/admin/users", h.users)
	mux.HandleFunc("POST /api/v1/admin/generate-discount", h.generateDiscount)

	return mux
}

// mapDomainError converts a domain error to an HTTP status code and a
// client-facing message. Unknown errors map to 500 with a generic message;
// the caller logs them.
func mapDomainError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound, "product not found", true
	case errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound, "item not in cart", true
	case errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid quantity", true
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "cart is empty", true
	case errors.Is(err, discount.ErrInvalidCode):
		return http.StatusBadRequest, "invalid or already used discount code", true
	case errors.Is(err, discount.ErrInvalidPercent):
		return http.StatusBadRequest, "percentage must be greater than 0 and at most 100", true
	default:
		return http.StatusInternalServerError, "internal error", false
	}
}
