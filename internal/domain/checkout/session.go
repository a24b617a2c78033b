package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/quote"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

// Listener is notified with the rebuilt summary after every change, or with
// the error that prevented rebuilding it.
type Listener func(*Summary, error)

// Session owns the checkout state of a single screen and rebuilds the
// summary whenever any part of it changes. It is not safe for concurrent use.
type Session struct {
	in       Input
	listener Listener
	last     *Summary
	err      error
}

// NewSession creates a session for in. The listener is registered for the
// session's lifetime and is not called for the initial computation; a
// failure there is reported by Err.
func NewSession(in Input, listener Listener) *Session {
	s := &Session{in: in, listener: listener}
	if in.Cart != nil {
		s.last, s.err = Compute(in)
	}
	return s
}

// Summary returns the last successfully computed summary, or nil.
func (s *Session) Summary() *Summary { return s.last }

// Err returns the error of the most recent computation, or nil if it
// succeeded.
func (s *Session) Err() error { return s.err }

// Input returns the current state.
func (s *Session) Input() Input { return s.in }

// SetCart replaces the cart.
func (s *Session) SetCart(c Cart) {
	s.in.Cart = c
	s.recompute()
}

// SetQuote replaces the delivery quote.
func (s *Session) SetQuote(q quote.Quote) {
	s.in.Quote = q
	s.recompute()
}

// SetFlags replaces the pickup and tipping flags.
func (s *Session) SetFlags(f Flags) {
	s.in.Flags = f
	s.recompute()
}

// SetTip replaces the tip.
func (s *Session) SetTip(spec tip.Spec) {
	s.in.Tip = spec
	s.recompute()
}

// SetDeliveryTip replaces the driver tip.
func (s *Session) SetDeliveryTip(spec tip.Spec) {
	s.in.DeliveryTip = spec
	s.recompute()
}

// TipObserver returns a tip.Observer that feeds a tip editor into SetTip.
func (s *Session) TipObserver() tip.Observer {
	return func(value int64, percent bool) {
		s.SetTip(s.specFromInput(value, percent))
	}
}

// DeliveryTipObserver returns a tip.Observer that feeds a tip editor into
// SetDeliveryTip.
func (s *Session) DeliveryTipObserver() tip.Observer {
	return func(value int64, percent bool) {
		s.SetDeliveryTip(s.specFromInput(value, percent))
	}
}

func (s *Session) specFromInput(value int64, percent bool) tip.Spec {
	if percent {
		return tip.Percent(decimal.NewFromInt(value))
	}
	var currency string
	if s.in.Cart != nil {
		currency = s.in.Cart.Currency()
	}
	return tip.Fixed(money.New(value, currency))
}

func (s *Session) recompute() {
	sum, err := Compute(s.in)
	s.err = err
	if err == nil {
		s.last = sum
	}
	if s.listener != nil {
		s.listener(sum, err)
	}
}
