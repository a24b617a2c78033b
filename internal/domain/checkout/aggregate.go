package checkout

import (
	"github.com/go-faster/errors"

	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/quote"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

// BuildLineItems assembles the summary rows for in, always in this order:
// Subtotal, Delivery Fee (not for pickup), Tip (when tipping), Delivery Tip
// (when tipping the driver of a delivery) and finally Total.
func BuildLineItems(in Input) ([]LineItem, error) {
	if in.Cart == nil {
		return nil, ErrNoCart
	}

	subtotal := in.Cart.Subtotal()
	if subtotal.Currency == "" {
		subtotal.Currency = in.Cart.Currency()
	}

	items := make([]LineItem, 0, 5)
	items = append(items, LineItem{
		Name:   NameSubtotal,
		Amount: subtotal,
		State:  quote.StatusResolved,
	})

	if !in.Flags.PickupOrder {
		items = append(items, deliveryFeeItem(in.Quote, subtotal.Currency))
	}

	if in.Flags.Tipping {
		item, err := tipItem(NameTip, in.Tip, subtotal)
		if err != nil {
			return nil, errors.Wrap(err, "resolve tip")
		}
		items = append(items, item)
	}

	if in.Flags.TippingDriver && !in.Flags.PickupOrder {
		item, err := tipItem(NameDeliveryTip, in.DeliveryTip, subtotal)
		if err != nil {
			return nil, errors.Wrap(err, "resolve delivery tip")
		}
		items = append(items, item)
	}

	total, err := Total(items)
	if err != nil {
		return nil, err
	}

	return append(items, LineItem{
		Name:   NameTotal,
		Amount: total,
		State:  quote.StatusResolved,
	}), nil
}

// Compute builds the line items for in and returns them as a Summary.
func Compute(in Input) (*Summary, error) {
	items, err := BuildLineItems(in)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Items: items,
		Total: items[len(items)-1].Amount,
	}, nil
}

func deliveryFeeItem(q quote.Quote, currency string) LineItem {
	item := LineItem{
		Name:   NameDeliveryFee,
		Amount: money.Zero(currency),
		State:  q.Status,
	}
	switch q.Status {
	case quote.StatusResolved:
		item.Amount = q.Fee
		if item.Amount.Currency == "" {
			item.Amount.Currency = currency
		}
	case quote.StatusErrored:
		item.Err = q.Err
	}
	return item
}

func tipItem(name string, spec tip.Spec, subtotal money.Amount) (LineItem, error) {
	amount, err := tip.Resolve(spec, subtotal)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{
		Name:   name,
		Amount: amount,
		Tip:    &spec,
		State:  quote.StatusResolved,
	}, nil
}
