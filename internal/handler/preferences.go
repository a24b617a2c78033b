package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

// PutPreferences handles PUT /api/carts/{id}/preferences.
//
// Body: {"pickupOrder":bool,"tipping":bool,"tippingDriver":bool,
// "tip":{"kind":"fixed","value":150},"deliveryTip":{"kind":"percent","value":"12.5"}}.
// Omitted tips keep their defaults.
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := decodePreferences(r.PathValue("id"), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.SavePreferences(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodePreferences(cartID string, data []byte) (*checkout.Preferences, error) {
	p := checkout.DefaultPreferences(cartID)
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pickupOrder":
			p.Flags.PickupOrder, err = d.Bool()
		case "tipping":
			p.Flags.Tipping, err = d.Bool()
		case "tippingDriver":
			p.Flags.TippingDriver, err = d.Bool()
		case "tip":
			err = p.Tip.Decode(d)
		case "deliveryTip":
			err = p.DeliveryTip.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, tip.ErrInvalidTipSpec) {
			return nil, err
		}
		return nil, &BadRequestError{Err: err}
	}
	return p, nil
}
