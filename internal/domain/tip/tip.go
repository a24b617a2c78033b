// Package tip resolves tips against a subtotal and models the tip editor.
package tip

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

// ErrInvalidTipSpec is returned for negative percentages, negative fixed
// amounts and unparsable tip input.
var ErrInvalidTipSpec = errors.New("invalid tip spec")

// Kind enumerates the ways a tip can be expressed.
type Kind uint8

const (
	// KindFixed is a flat amount in minor units.
	KindFixed Kind = iota
	// KindPercent is a percentage of the subtotal.
	KindPercent
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// ParseKind converts the string form of a Kind back.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "fixed":
		return KindFixed, nil
	case "percent":
		return KindPercent, nil
	default:
		return 0, errors.Wrapf(ErrInvalidTipSpec, "unknown kind %q", s)
	}
}

// Spec is either a fixed amount or a percentage of the subtotal.
// The zero value is a fixed tip of nothing.
type Spec struct {
	kind    Kind
	fixed   money.Amount
	percent decimal.Decimal
}

// Fixed returns a flat tip of a.
func Fixed(a money.Amount) Spec {
	return Spec{kind: KindFixed, fixed: a}
}

// Percent returns a tip of p percent of the subtotal.
func Percent(p decimal.Decimal) Spec {
	return Spec{kind: KindPercent, percent: p}
}

// ParsePercent reads user input such as "15", "15%" or "12.5 %".
func ParsePercent(s string) (Spec, error) {
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	p, err := decimal.NewFromString(raw)
	if err != nil {
		return Spec{}, errors.Wrapf(ErrInvalidTipSpec, "parse percent %q", s)
	}
	spec := Percent(p)
	if err := Validate(spec); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Kind reports how the tip is expressed.
func (s Spec) Kind() Kind { return s.kind }

// IsPercent reports whether the tip is a percentage.
func (s Spec) IsPercent() bool { return s.kind == KindPercent }

// FixedAmount returns the flat amount of a fixed tip.
func (s Spec) FixedAmount() money.Amount { return s.fixed }

// PercentValue returns the percentage of a percent tip.
func (s Spec) PercentValue() decimal.Decimal { return s.percent }

// Equal reports whether two specs describe the same tip.
func (s Spec) Equal(o Spec) bool {
	if s.kind != o.kind {
		return false
	}
	if s.kind == KindPercent {
		return s.percent.Equal(o.percent)
	}
	return s.fixed == o.fixed
}

func (s Spec) String() string {
	if s.kind == KindPercent {
		return s.percent.String() + "%"
	}
	return s.fixed.String()
}

// Validate rejects negative tips.
func Validate(s Spec) error {
	switch s.kind {
	case KindPercent:
		if s.percent.IsNegative() {
			return errors.Wrapf(ErrInvalidTipSpec, "negative percentage %s", s.percent)
		}
	case KindFixed:
		if s.fixed.IsNegative() {
			return errors.Wrapf(ErrInvalidTipSpec, "negative amount %d", s.fixed.Value)
		}
	default:
		return errors.Wrapf(ErrInvalidTipSpec, "unknown kind %d", s.kind)
	}
	return nil
}
