package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/kart-checkout/internal/domain/quote"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

type summaryLog struct {
	sums []*Summary
	errs []error
}

func (l *summaryLog) listen(s *Summary, err error) {
	l.sums = append(l.sums, s)
	l.errs = append(l.errs, err)
}

func TestSession_RecomputesOnEveryChange(t *testing.T) {
	log := &summaryLog{}
	s := NewSession(Input{Cart: cart(1000), Quote: quote.Pending()}, log.listen)

	require.NotNil(t, s.Summary())
	assert.Equal(t, usd(1000), s.Summary().Total)
	assert.Empty(t, log.sums, "initial computation is not broadcast")

	s.SetQuote(quote.Resolved(usd(250)))
	s.SetFlags(Flags{Tipping: true})
	s.SetTip(pct(10))
	s.SetCart(cart(2000))

	require.Len(t, log.sums, 4)
	totals := make([]int64, len(log.sums))
	for i, sum := range log.sums {
		require.NoError(t, log.errs[i])
		totals[i] = sum.Total.Value
	}
	// Tipping starts from the zero fixed tip until a tip is set.
	assert.Equal(t, []int64{1250, 1250, 1350, 2450}, totals)
	assert.Equal(t, usd(2450), s.Summary().Total)
}

func TestSession_ErrorKeepsLastSummary(t *testing.T) {
	log := &summaryLog{}
	s := NewSession(Input{
		Cart:  cart(1000),
		Flags: Flags{PickupOrder: true, Tipping: true},
		Tip:   pct(10),
	}, log.listen)

	s.SetTip(pct(-1))

	require.Len(t, log.errs, 1)
	require.ErrorIs(t, log.errs[0], tip.ErrInvalidTipSpec)
	assert.Nil(t, log.sums[0])
	assert.Equal(t, usd(1100), s.Summary().Total)
	require.ErrorIs(t, s.Err(), tip.ErrInvalidTipSpec)

	s.SetTip(pct(20))
	assert.NoError(t, s.Err())
	assert.Equal(t, usd(1200), s.Summary().Total)
}

func TestSession_InitialError(t *testing.T) {
	log := &summaryLog{}
	s := NewSession(Input{
		Cart:  cart(1000),
		Flags: Flags{PickupOrder: true, Tipping: true},
		Tip:   pct(-5),
	}, log.listen)

	require.ErrorIs(t, s.Err(), tip.ErrInvalidTipSpec)
	assert.Nil(t, s.Summary())
	assert.Empty(t, log.errs, "initial computation is not broadcast")

	s.SetTip(pct(10))
	require.NoError(t, s.Err())
	assert.Equal(t, usd(1100), s.Summary().Total)
}

func TestSession_TipObserver(t *testing.T) {
	log := &summaryLog{}
	s := NewSession(Input{
		Cart:  cart(1000),
		Flags: Flags{PickupOrder: true, Tipping: true},
	}, log.listen)

	in := tip.NewInput(s.TipObserver())
	in.Increment()
	in.ToggleMode(tip.ModePercent)
	in.Increment()

	require.Len(t, log.sums, 3)
	assert.Equal(t, int64(1150), log.sums[0].Total.Value)
	assert.Equal(t, int64(1050), log.sums[1].Total.Value)
	assert.Equal(t, int64(1100), log.sums[2].Total.Value)
	assert.True(t, s.Input().Tip.Equal(pct(10)))
}

func TestSession_DeliveryTipObserver(t *testing.T) {
	s := NewSession(Input{
		Cart:  cart(2550),
		Quote: quote.Resolved(usd(0)),
		Flags: Flags{TippingDriver: true},
	}, nil)

	in := tip.NewInput(s.DeliveryTipObserver())
	in.ToggleMode(tip.ModePercent)
	for range 3 {
		in.Increment()
	}

	// 20% of $25.50
	assert.Equal(t, usd(2550+510), s.Summary().Total)

	in.ToggleMode(tip.ModeFixed)
	assert.Equal(t, usd(100), s.Input().DeliveryTip.FixedAmount())
	assert.Equal(t, usd(2550+100), s.Summary().Total)
}
