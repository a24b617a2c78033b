package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/money"
)

// GetSummary handles GET /api/carts/{id}/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var e jx.Encoder
	h.encodeSummary(&e, sum)
	writeJSON(w, http.StatusOK, e.Bytes())
}

func (h *Handler) encodeSummary(e *jx.Encoder, sum *checkout.Summary) {
	cur := h.formatter.Lookup(sum.Total.Currency)

	e.ObjStart()
	e.FieldStart("cartId")
	e.Str(sum.CartID)
	e.FieldStart("currency")
	e.Str(cur.Code)
	e.FieldStart("locale")
	e.Str(cur.Locale.String())

	e.FieldStart("items")
	e.ArrStart()
	for _, item := range sum.Items {
		h.encodeLineItem(e, item)
	}
	e.ArrEnd()

	e.FieldStart("total")
	h.encodeAmount(e, sum.Total)
	e.ObjEnd()
}

// encodeLineItem writes one row. Unsettled rows carry their state and, when
// errored, the message, but no display string.
func (h *Handler) encodeLineItem(e *jx.Encoder, item checkout.LineItem) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(item.Name)
	e.FieldStart("state")
	e.Str(item.State.String())
	if item.Settled() {
		e.FieldStart("amount")
		e.Int64(item.Amount.Value)
		e.FieldStart("display")
		e.Str(h.formatter.Format(item.Amount.Value, item.Amount.Currency))
	}
	if item.Err != "" {
		e.FieldStart("error")
		e.Str(item.Err)
	}
	if item.Tip != nil {
		e.FieldStart("tip")
		item.Tip.Encode(e)
	}
	e.ObjEnd()
}

func (h *Handler) encodeAmount(e *jx.Encoder, a money.Amount) {
	e.ObjStart()
	e.FieldStart("amount")
	e.Int64(a.Value)
	e.FieldStart("display")
	e.Str(h.formatter.Format(a.Value, a.Currency))
	e.ObjEnd()
}
