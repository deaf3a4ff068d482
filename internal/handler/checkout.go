package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	code, err := decodeCheckout(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), code)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("order_id")
		e.Int64(receipt.OrderID)
		e.FieldStart("items")
		e.ArrStart()
		for _, li := range receipt.Items {
			encodeLineItem(e, li)
		}
		e.ArrEnd()
		e.FieldStart("subtotal")
		encodeDecimal(e, receipt.Gross)
		e.FieldStart("discount_applied")
		e.Bool(receipt.DiscountApplied)
		e.FieldStart("discount_amount")
		encodeDecimal(e, receipt.DiscountAmount)
		e.FieldStart("total_amount")
		encodeDecimal(e, receipt.Total)
		if receipt.NewDiscountCode != "" {
			e.FieldStart("new_discount_code")
			e.Str(receipt.NewDiscountCode)
		}
		e.FieldStart("message")
		e.Str(receipt.Message)
		e.FieldStart("timestamp")
		encodeTime(e, receipt.CreatedAt)
		e.ObjEnd()
	})
}

// decodeCheckout extracts the optional discount code from the request body.
// An empty body is a checkout without a discount.
func decodeCheckout(r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", nil
	}

	var code string
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "discount_code":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			code = v
		default:
			return d.Skip()
		}
		return nil
	})
	return code, err
}
