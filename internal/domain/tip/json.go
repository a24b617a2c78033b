package tip

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

// Encode writes s as {"kind":"fixed","value":150} or
// {"kind":"percent","value":"12.5"}. Percent values are strings so no
// precision is lost.
func (s Spec) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("kind")
	e.Str(s.kind.String())
	e.FieldStart("value")
	if s.kind == KindPercent {
		e.Str(s.percent.String())
	} else {
		e.Int64(s.fixed.Value)
	}
	e.ObjEnd()
}

// Decode reads a spec written by Encode, with keys in any order. A missing
// kind means fixed. Percent values may also be JSON numbers or user input
// such as "15%". Fixed amounts carry no currency.
func (s *Spec) Decode(d *jx.Decoder) error {
	var (
		kind  = KindFixed
		value jx.Raw
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "kind":
			str, err := d.Str()
			if err != nil {
				return err
			}
			kind, err = ParseKind(str)
			return err
		case "value":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			value = raw
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return err
	}
	if value == nil {
		return errors.New("missing value")
	}

	vd := jx.DecodeBytes(value)
	if kind == KindPercent {
		if vd.Next() == jx.String {
			str, err := vd.Str()
			if err != nil {
				return err
			}
			parsed, err := ParsePercent(str)
			if err != nil {
				return err
			}
			*s = parsed
			return nil
		}
		n, err := vd.Num()
		if err != nil {
			return err
		}
		p, err := decimal.NewFromString(n.String())
		if err != nil {
			return errors.Wrapf(ErrInvalidTipSpec, "percent %s", n)
		}
		*s = Percent(p)
		return nil
	}

	v, err := vd.Int64()
	if err != nil {
		return err
	}
	*s = Fixed(money.New(v, ""))
	return nil
}
