package checkout

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/quote"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

// Line item names, in display order.
const (
	NameSubtotal    = "Subtotal"
	NameDeliveryFee = "Delivery Fee"
	NameTip         = "Tip"
	NameDeliveryTip = "Delivery Tip"
	NameTotal       = "Total"
)

// Sentinel errors for checkout computation.
var (
	ErrNoCart       = errors.New("cart required")
	ErrInvalidQuote = errors.New("invalid quote")
)

// CartNotFoundError indicates a requested cart does not exist.
type CartNotFoundError struct {
	CartID string
}

func (e *CartNotFoundError) Error() string {
	return fmt.Sprintf("cart %s not found", e.CartID)
}

// Cart is the read-only view of a cart the line items are built from.
type Cart interface {
	Subtotal() money.Amount
	Currency() string
}

// Flags select which optional line items are included.
type Flags struct {
	PickupOrder   bool
	Tipping       bool
	TippingDriver bool
}

// Input is everything a checkout summary is computed from.
type Input struct {
	Cart        Cart
	Quote       quote.Quote
	Flags       Flags
	Tip         tip.Spec
	DeliveryTip tip.Spec
}

// LineItem is one named row of a checkout summary. Amount is meaningful only
// when State is resolved; a pending, errored or absent delivery fee carries
// a zero amount and, when errored, the error message.
type LineItem struct {
	Name   string
	Amount money.Amount
	Tip    *tip.Spec
	State  quote.Status
	Err    string
}

// Settled reports whether the item contributes its amount to the total.
func (li LineItem) Settled() bool {
	return li.State == quote.StatusResolved
}

// Summary is the computed list of line items; Total repeats the amount of
// the final "Total" item.
type Summary struct {
	CartID string
	Items  []LineItem
	Total  money.Amount
}

// Preferences is the persisted checkout state of a cart: fulfilment and
// tipping choices restored across sessions.
type Preferences struct {
	CartID      string
	Flags       Flags
	Tip         tip.Spec
	DeliveryTip tip.Spec
}

// DefaultPreferences returns the state of a cart nobody has edited yet:
// delivery, no tips, both tip editors at their starting value.
func DefaultPreferences(cartID string) *Preferences {
	start := tip.Fixed(money.New(tip.DefaultFixedValue, ""))
	return &Preferences{
		CartID:      cartID,
		Tip:         start,
		DeliveryTip: start,
	}
}

// CartItem is a product line stored in a cart.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// CartSnapshot is a stored cart with prices in minor units.
type CartSnapshot struct {
	ID           string
	CurrencyCode string
	Items        []CartItem
}

var _ Cart = (*CartSnapshot)(nil)

// Subtotal returns the sum of unit price * quantity across all items.
func (c *CartSnapshot) Subtotal() money.Amount {
	var sum int64
	for _, item := range c.Items {
		if item.Quantity <= 0 {
			continue
		}
		sum += item.UnitPrice * int64(item.Quantity)
	}
	return money.New(sum, c.CurrencyCode)
}

// Currency returns the cart's ISO 4217 code.
func (c *CartSnapshot) Currency() string {
	return c.CurrencyCode
}

// FixedCart is a Cart known only by its subtotal.
type FixedCart struct {
	Amount money.Amount
}

var _ Cart = FixedCart{}

// Subtotal returns the fixed amount.
func (c FixedCart) Subtotal() money.Amount { return c.Amount }

// Currency returns the amount's currency.
func (c FixedCart) Currency() string { return c.Amount.Currency }
