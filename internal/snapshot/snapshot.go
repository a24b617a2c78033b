// Package snapshot decodes exported checkout snapshots and aggregates their
// recomputed totals per currency.
//
// A snapshot is one NDJSON line:
//
//	{"id":"s1","cartId":"c1","currency":"USD",
//	 "items":[{"productId":"p1","name":"Waffle","unitPrice":650,"quantity":2}],
//	 "quote":{"status":"resolved","fee":399,"currency":"USD"},
//	 "pickupOrder":false,"tipping":true,"tip":{"kind":"percent","value":"15"},
//	 "tippingDriver":false,"deliveryTip":{"kind":"fixed","value":100}}
package snapshot

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/quote"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

// Snapshot is the checkout state of a cart at export time.
type Snapshot struct {
	ID          string
	Cart        checkout.CartSnapshot
	Quote       quote.Quote
	Flags       checkout.Flags
	Tip         tip.Spec
	DeliveryTip tip.Spec
}

// Input returns the aggregator input the snapshot describes.
func (s *Snapshot) Input() checkout.Input {
	return checkout.Input{
		Cart:        &s.Cart,
		Quote:       s.Quote,
		Flags:       s.Flags,
		Tip:         s.Tip,
		DeliveryTip: s.DeliveryTip,
	}
}

// Decode reads one snapshot. Missing tips take the default editor value and
// a missing quote is absent.
func (s *Snapshot) Decode(d *jx.Decoder) error {
	defaults := checkout.DefaultPreferences("")
	*s = Snapshot{Tip: defaults.Tip, DeliveryTip: defaults.DeliveryTip}

	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = d.Str()
		case "cartId":
			s.Cart.ID, err = d.Str()
		case "currency":
			s.Cart.CurrencyCode, err = d.Str()
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				s.Cart.Items = append(s.Cart.Items, item)
				return nil
			})
		case "quote":
			err = s.Quote.Decode(d)
		case "pickupOrder":
			s.Flags.PickupOrder, err = d.Bool()
		case "tipping":
			s.Flags.Tipping, err = d.Bool()
		case "tippingDriver":
			s.Flags.TippingDriver, err = d.Bool()
		case "tip":
			err = s.Tip.Decode(d)
		case "deliveryTip":
			err = s.DeliveryTip.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}

func decodeItem(d *jx.Decoder) (checkout.CartItem, error) {
	var item checkout.CartItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			item.ProductID, err = d.Str()
		case "name":
			item.Name, err = d.Str()
		case "unitPrice":
			item.UnitPrice, err = d.Int64()
		case "quantity":
			item.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return item, err
}
