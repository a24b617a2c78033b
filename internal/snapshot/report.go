package snapshot

import (
	"slices"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/jx"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/money"
)

// Totals aggregates the recomputed summaries of one currency.
type Totals struct {
	Currency  string
	Snapshots int
	Subtotal  int64
	Total     int64
	// Unsettled counts snapshots whose delivery fee was absent, pending or
	// errored and therefore not part of Total.
	Unsettled int
}

// Report collects per-currency totals across snapshot files. Snapshot ids
// already seen are skipped using a bloom filter, so with the configured
// false positive rate an unseen snapshot may occasionally be counted as a
// duplicate. Safe for concurrent use.
type Report struct {
	mu         sync.Mutex
	seen       *bloom.BloomFilter
	totals     map[string]*Totals
	duplicates int
	failed     int
}

// NewReport sizes the duplicate filter for expected snapshots at the given
// false positive rate.
func NewReport(expected uint, fpr float64) *Report {
	return &Report{
		seen:   bloom.NewWithEstimates(max(expected, 1), fpr),
		totals: make(map[string]*Totals),
	}
}

// Add recomputes the summary of s and adds it to its currency's totals.
// It reports false when s was skipped as a duplicate. A snapshot whose
// summary cannot be computed is counted as failed.
func (r *Report) Add(s Snapshot) (bool, error) {
	if s.ID != "" && !r.markSeen(s.ID) {
		return false, nil
	}

	sum, err := checkout.Compute(s.Input())
	if err != nil {
		r.Fail()
		return false, err
	}

	unsettled := false
	for _, item := range sum.Items {
		if item.Name == checkout.NameDeliveryFee && !item.Settled() {
			unsettled = true
		}
	}

	// Unknown codes keep their own bucket; only display falls back to USD.
	code := sum.Total.Currency
	if code == "" {
		code = money.DefaultCurrency
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.totals[code]
	if !ok {
		t = &Totals{Currency: code}
		r.totals[code] = t
	}
	t.Snapshots++
	t.Subtotal += s.Cart.Subtotal().Value
	t.Total += sum.Total.Value
	if unsettled {
		t.Unsettled++
	}
	return true, nil
}

func (r *Report) markSeen(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen.TestAndAddString(id) {
		r.duplicates++
		return false
	}
	return true
}

// Fail counts a snapshot that could not be decoded or computed.
func (r *Report) Fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

// Duplicates returns how many snapshots were skipped as already seen.
func (r *Report) Duplicates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duplicates
}

// Failed returns how many snapshots could not be processed.
func (r *Report) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Totals returns a copy of the per-currency totals ordered by currency code.
func (r *Report) Totals() []Totals {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Totals, 0, len(r.totals))
	for _, t := range r.totals {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b Totals) int {
		return strings.Compare(a.Currency, b.Currency)
	})
	return out
}

// Encode writes the report with formatted amounts next to the minor units.
func (r *Report) Encode(e *jx.Encoder) {
	totals := r.Totals()

	e.ObjStart()
	e.FieldStart("currencies")
	e.ArrStart()
	for _, t := range totals {
		e.ObjStart()
		e.FieldStart("currency")
		e.Str(t.Currency)
		e.FieldStart("snapshots")
		e.Int(t.Snapshots)
		e.FieldStart("unsettled")
		e.Int(t.Unsettled)
		e.FieldStart("subtotal")
		e.Int64(t.Subtotal)
		e.FieldStart("total")
		e.Int64(t.Total)
		e.FieldStart("totalDisplay")
		e.Str(money.Format(t.Total, t.Currency))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("duplicates")
	e.Int(r.Duplicates())
	e.FieldStart("failed")
	e.Int(r.Failed())
	e.ObjEnd()
}
