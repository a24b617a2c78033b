package quote

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

// Encode writes q as {"status":"resolved","fee":399,"currency":"USD"},
// {"status":"errored","error":"..."} or just the status.
func (q Quote) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("status")
	e.Str(q.Status.String())
	switch q.Status {
	case StatusResolved:
		e.FieldStart("fee")
		e.Int64(q.Fee.Value)
		e.FieldStart("currency")
		e.Str(q.Fee.Currency)
	case StatusErrored:
		e.FieldStart("error")
		e.Str(q.Err)
	}
	e.ObjEnd()
}

// Decode reads a quote written by Encode. Status is required and a resolved
// quote requires a fee. Fields that do not belong to the status are dropped.
func (q *Quote) Decode(d *jx.Decoder) error {
	var (
		status    Status
		fee       money.Amount
		msg       string
		hasStatus bool
		hasFee    bool
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "status":
			var s string
			if s, err = d.Str(); err != nil {
				return err
			}
			status, err = ParseStatus(s)
			hasStatus = true
		case "fee":
			fee.Value, err = d.Int64()
			hasFee = true
		case "currency":
			fee.Currency, err = d.Str()
		case "error":
			msg, err = d.Str()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	if err != nil {
		return err
	}

	switch {
	case !hasStatus:
		return errors.New("missing status")
	case status == StatusResolved && !hasFee:
		return errors.New("missing fee")
	}

	switch status {
	case StatusResolved:
		*q = Resolved(money.New(fee.Value, fee.Currency))
	case StatusErrored:
		*q = Errored(msg)
	case StatusPending:
		*q = Pending()
	default:
		*q = Absent()
	}
	return nil
}
