// Package quote models a delivery-fee quote as it moves through fetching.
package quote

import (
	"github.com/go-faster/errors"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

// Status is the fetch state of a quote.
type Status uint8

const (
	// StatusAbsent means no quote has been requested yet.
	StatusAbsent Status = iota
	// StatusPending means a quote request is in flight.
	StatusPending
	// StatusResolved means the fee is known.
	StatusResolved
	// StatusErrored means the quote request failed.
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ParseStatus converts the string form of a Status back.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "absent":
		return StatusAbsent, nil
	case "pending":
		return StatusPending, nil
	case "resolved":
		return StatusResolved, nil
	case "errored":
		return StatusErrored, nil
	default:
		return 0, errors.Errorf("unknown quote status %q", s)
	}
}

// Quote is a delivery-fee estimate. Fee is meaningful only when resolved and
// Err only when errored. The zero value is an absent quote.
type Quote struct {
	Status Status
	Fee    money.Amount
	Err    string
}

// Absent returns a quote that was never requested.
func Absent() Quote { return Quote{Status: StatusAbsent} }

// Pending returns a quote whose request is in flight.
func Pending() Quote { return Quote{Status: StatusPending} }

// Resolved returns a quote with a known fee.
func Resolved(fee money.Amount) Quote { return Quote{Status: StatusResolved, Fee: fee} }

// Errored returns a failed quote carrying msg for display.
func Errored(msg string) Quote { return Quote{Status: StatusErrored, Err: msg} }
