package tip

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

// Resolve computes the tip owed on subtotal.
//
// A percentage resolves to round(subtotal * p / 100) in exact decimal
// arithmetic, rounding half away from zero. Percentages above 100 are not
// capped. A fixed tip is returned as is; when it carries no currency code it
// takes the subtotal's.
func Resolve(spec Spec, subtotal money.Amount) (money.Amount, error) {
	if err := Validate(spec); err != nil {
		return money.Amount{}, err
	}

	if spec.kind == KindPercent {
		v := decimal.NewFromInt(subtotal.Value).
			Mul(spec.percent).
			Shift(-2).
			Round(0)
		if !v.BigInt().IsInt64() {
			return money.Amount{}, errors.Wrapf(ErrInvalidTipSpec, "%s%% of %d is out of range", spec.percent, subtotal.Value)
		}
		return money.New(v.IntPart(), subtotal.Currency), nil
	}

	a := spec.fixed
	if a.Currency == "" {
		a.Currency = subtotal.Currency
	}
	return a, nil
}
