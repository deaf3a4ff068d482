package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/uniblox-store/internal/domain/cart"
)

// writeJSON encodes the response with fill and writes it with the status.
func writeJSON(w http.ResponseWriter, status int, fill func(e *jx.Encoder)) {
	var e jx.Encoder
	fill(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the API error envelope: {"code": status, "message": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

// respondDomainError maps err to a status and message, logging unexpected
// errors before responding.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg, known := mapDomainError(err)
	if !known {
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
	}
	writeError(w, status, msg)
}

// encodeDecimal writes a decimal as a JSON number.
func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.RawStr(v.String())
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339))
}

func encodeLineItem(e *jx.Encoder, li cart.LineItem) {
	e.ObjStart()
	e.FieldStart("product_id")
	e.Int64(li.ProductID)
	e.FieldStart("name")
	e.Str(li.Name)
	e.FieldStart("price")
	encodeDecimal(e, li.Price)
	e.FieldStart("quantity")
	e.Int(li.Quantity)
	e.FieldStart("line_total")
	encodeDecimal(e, li.LineTotal())
	e.ObjEnd()
}

func encodeCartView(e *jx.Encoder, v *cart.View) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, li := range v.Items {
		encodeLineItem(e, li)
	}
	e.ArrEnd()
	e.FieldStart("total_items")
	e.Int(v.TotalItems)
	e.FieldStart("subtotal")
	encodeDecimal(e, v.Subtotal)
	e.ObjEnd()
}
