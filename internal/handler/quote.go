package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/kart-checkout/internal/domain/quote"
)

// PutQuote handles PUT /api/carts/{id}/quote.
//
// Body: {"status":"resolved","fee":399,"currency":"USD"},
// {"status":"pending"} or {"status":"errored","error":"no couriers"}.
// Status "absent" clears the stored quote.
func (h *Handler) PutQuote(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var q quote.Quote
	if err := q.Decode(jx.DecodeBytes(data)); err != nil {
		writeError(w, r, &BadRequestError{Err: err})
		return
	}
	if err := h.svc.RecordQuote(r.Context(), r.PathValue("id"), q); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
