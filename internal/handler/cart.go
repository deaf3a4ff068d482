package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
)

// maxBodySize caps request bodies; every API request here is tiny.
const maxBodySize = 1 << 20

type addToCartRequest struct {
	ProductID int64
	Quantity  int
}

type updateCartRequest struct {
	ProductID   int64
	Quantity    int
	hasQuantity bool
}

func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCartView(e, view)
	})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddToCart(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.cart.Add(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeCartView(e, view)
	})
}

func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request) {
	req, err := decodeUpdateCart(r)
	if err != nil || !req.hasQuantity {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.cart.Update(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCartView(e, view)
	})
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	view, err := h.cart.Remove(r.Context(), productID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCartView(e, view)
	})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeAddToCart(r *http.Request) (addToCartRequest, error) {
	// Quantity defaults to 1 when omitted.
	req := addToCartRequest{Quantity: 1}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err != nil {
		return req, err
	}

	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "product_id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			req.ProductID = v
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			req.Quantity = v
		default:
			return d.Skip()
		}
		return nil
	})
	return req, err
}

func decodeUpdateCart(r *http.Request) (updateCartRequest, error) {
	var req updateCartRequest

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err != nil {
		return req, err
	}

	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "product_id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			req.ProductID = v
		case "quantity":
			v, err := d.Int()
			if err != nil {
				return err
			}
			req.Quantity = v
			req.hasQuantity = true
		default:
			return d.Skip()
		}
		return nil
	})
	return req, err
}
