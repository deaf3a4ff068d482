package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/uniblox-store/internal/domain/order"
)

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	codes, err := h.registry.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s := order.Aggregate(orders, codes)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("total_orders")
		e.Int64(s.TotalOrders)
		e.FieldStart("total_items_purchased")
		e.Int64(s.TotalItemsPurchased)
		e.FieldStart("total_purchase_amount")
		encodeDecimal(e, s.TotalPurchaseAmount)
		e.FieldStart("total_discount_amount")
		encodeDecimal(e, s.TotalDiscountAmount)
		e.FieldStart("average_order_value")
		encodeDecimal(e, s.AverageOrderValue)
		e.FieldStart("discount_codes_issued")
		e.Int64(s.CodesIssued)
		e.FieldStart("discount_codes_redeemed")
		e.Int64(s.CodesRedeemed)
		e.ObjEnd()
	})
}

// users is an explicit stub: orders carry no customer identity, so the
// endpoint returns a single synthetic aggregate entry instead of inventing a
// user model the system does not have.
func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	count, err := h.ledger.Count(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		e.ObjStart()
		e.FieldStart("user_id")
		e.Str("anonymous")
		e.FieldStart("total_orders")
		e.Int64(count)
		e.ObjEnd()
		e.ArrEnd()
	})
}

func (h *Handler) generateDiscount(w http.ResponseWriter, r *http.Request) {
	percent, err := decodeGenerateDiscount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.registry.Issue(r.Context(), percent, 0)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Str(c.Code)
		e.FieldStart("percentage")
		encodeDecimal(e, c.Percent)
		e.FieldStart("message")
		e.Str("Discount code generated successfully")
		e.ObjEnd()
	})
}

func decodeGenerateDiscount(r *http.Request) (decimal.Decimal, error) {
	percent := decimal.Zero

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err != nil {
		return percent, err
	}

	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "percentage":
			n, err := d.Num()
			if err != nil {
				return err
			}
			v, err := decimal.NewFromString(n.String())
			if err != nil {
				return err
			}
			percent = v
		default:
			return d.Skip()
		}
		return nil
	})
	// Range violations surface as discount.ErrInvalidPercent from the
	// registry, keeping one validation path.
	return percent, err
}
