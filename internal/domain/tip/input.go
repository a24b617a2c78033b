package tip

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

// Mode is the unit the tip input is currently edited in.
type Mode uint8

const (
	// ModeFixed edits a flat amount in minor units.
	ModeFixed Mode = iota
	// ModePercent edits a whole percentage.
	ModePercent
)

// Starting values and step sizes of the tip input.
const (
	DefaultFixedValue   int64 = 100 // $1.00
	DefaultPercentValue int64 = 5
	FixedStep           int64 = 50
	PercentStep         int64 = 5
)

// Observer receives the input value after every transition.
type Observer func(value int64, percent bool)

// Input is the tip editor state: a mode and an integer value that is either
// minor units or a whole percentage. It lives as long as the owning screen.
type Input struct {
	mode     Mode
	value    int64
	currency string
	observer Observer
}

// Option configures an Input.
type Option func(*Input)

// WithInitial starts the input from an existing tip instead of $1.00.
// Fractional percentages are rounded to a whole percent.
func WithInitial(spec Spec) Option {
	return func(in *Input) {
		if spec.IsPercent() {
			in.mode = ModePercent
			in.value = spec.PercentValue().Round(0).IntPart()
			return
		}
		in.mode = ModeFixed
		in.value = spec.FixedAmount().Value
		if c := spec.FixedAmount().Currency; c != "" {
			in.currency = c
		}
	}
}

// WithCurrency sets the currency of fixed tips produced by Spec.
func WithCurrency(code string) Option {
	return func(in *Input) {
		in.currency = code
	}
}

// NewInput creates a tip input. The observer may be nil.
func NewInput(observer Observer, opts ...Option) *Input {
	in := &Input{
		mode:     ModeFixed,
		value:    DefaultFixedValue,
		observer: observer,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Mode returns the current mode.
func (in *Input) Mode() Mode { return in.mode }

// Value returns the current value.
func (in *Input) Value() int64 { return in.value }

// ToggleMode switches to m and resets the value to that mode's starting
// value. No unit conversion is attempted.
func (in *Input) ToggleMode(m Mode) {
	in.mode = m
	if m == ModePercent {
		in.value = DefaultPercentValue
	} else {
		in.value = DefaultFixedValue
	}
	in.emit()
}

// Increment raises the value by one step.
func (in *Input) Increment() {
	in.value += in.step()
	in.emit()
}

// Decrement lowers the value by one step unless that would go below the
// mode's floor, in which case the value is left unchanged.
func (in *Input) Decrement() {
	if next := in.value - in.step(); next >= in.floor() {
		in.value = next
	}
	in.emit()
}

// Spec converts the current state into a tip.
func (in *Input) Spec() Spec {
	if in.mode == ModePercent {
		return Percent(decimal.NewFromInt(in.value))
	}
	return Fixed(money.New(in.value, in.currency))
}

func (in *Input) step() int64 {
	if in.mode == ModePercent {
		return PercentStep
	}
	return FixedStep
}

func (in *Input) floor() int64 {
	if in.mode == ModePercent {
		return DefaultPercentValue
	}
	return DefaultFixedValue
}

func (in *Input) emit() {
	if in.observer != nil {
		in.observer(in.value, in.mode == ModePercent)
	}
}
