package tip

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/kart-checkout/internal/domain/money"
)

type emission struct {
	value   int64
	percent bool
}

type recorder struct {
	got []emission
}

func (r *recorder) observe(value int64, percent bool) {
	r.got = append(r.got, emission{value: value, percent: percent})
}

func (r *recorder) last(t *testing.T) emission {
	t.Helper()
	require.NotEmpty(t, r.got)
	return r.got[len(r.got)-1]
}

func TestInput_Defaults(t *testing.T) {
	rec := &recorder{}
	in := NewInput(rec.observe)

	assert.Equal(t, ModeFixed, in.Mode())
	assert.Equal(t, int64(100), in.Value())
	assert.Empty(t, rec.got, "construction does not emit")
}

func TestInput_FixedDecrementFloors(t *testing.T) {
	rec := &recorder{}
	in := NewInput(rec.observe)

	for range 4 {
		in.Decrement()
	}

	assert.Equal(t, int64(100), in.Value())
	require.Len(t, rec.got, 4)
	for _, e := range rec.got {
		assert.Equal(t, emission{value: 100, percent: false}, e)
	}
}

func TestInput_PercentDecrementAtFloorIsNoop(t *testing.T) {
	rec := &recorder{}
	in := NewInput(rec.observe)

	in.ToggleMode(ModePercent)
	assert.Equal(t, emission{value: 5, percent: true}, rec.last(t))

	in.Decrement()
	assert.Equal(t, int64(5), in.Value())
	assert.Equal(t, emission{value: 5, percent: true}, rec.last(t))
}

func TestInput_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		steps func(in *Input)
		mode  Mode
		value int64
	}{
		{
			name:  "fixed increments by 50",
			steps: func(in *Input) { in.Increment(); in.Increment() },
			mode:  ModeFixed,
			value: 200,
		},
		{
			name:  "fixed decrement above floor",
			steps: func(in *Input) { in.Increment(); in.Increment(); in.Decrement() },
			mode:  ModeFixed,
			value: 150,
		},
		{
			name:  "percent increments by 5",
			steps: func(in *Input) { in.ToggleMode(ModePercent); in.Increment(); in.Increment() },
			mode:  ModePercent,
			value: 15,
		},
		{
			name: "percent decrement above floor",
			steps: func(in *Input) {
				in.ToggleMode(ModePercent)
				in.Increment()
				in.Decrement()
				in.Decrement()
			},
			mode:  ModePercent,
			value: 5,
		},
		{
			name: "toggle to percent resets",
			steps: func(in *Input) {
				in.Increment()
				in.Increment()
				in.Increment()
				in.ToggleMode(ModePercent)
			},
			mode:  ModePercent,
			value: 5,
		},
		{
			name: "toggle back to fixed resets",
			steps: func(in *Input) {
				in.ToggleMode(ModePercent)
				in.Increment()
				in.ToggleMode(ModeFixed)
			},
			mode:  ModeFixed,
			value: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			in := NewInput(rec.observe)

			tt.steps(in)

			assert.Equal(t, tt.mode, in.Mode())
			assert.Equal(t, tt.value, in.Value())
			assert.Equal(t, emission{value: tt.value, percent: tt.mode == ModePercent}, rec.last(t))
		})
	}
}

func TestInput_WithInitial(t *testing.T) {
	in := NewInput(nil, WithInitial(Percent(decimal.RequireFromString("17.6"))))
	assert.Equal(t, ModePercent, in.Mode())
	assert.Equal(t, int64(18), in.Value())

	in = NewInput(nil, WithInitial(Fixed(money.New(350, "EUR"))))
	assert.Equal(t, ModeFixed, in.Mode())
	assert.Equal(t, int64(350), in.Value())
	assert.Equal(t, Fixed(money.New(350, "EUR")), in.Spec())

	// Nil observer is allowed.
	in.Increment()
	assert.Equal(t, int64(400), in.Value())
}

func TestInput_Spec(t *testing.T) {
	in := NewInput(nil, WithCurrency("USD"))
	assert.Equal(t, Fixed(money.New(100, "USD")), in.Spec())

	in.ToggleMode(ModePercent)
	in.Increment()
	got := in.Spec()
	require.True(t, got.IsPercent())
	assert.True(t, decimal.NewFromInt(10).Equal(got.PercentValue()))
}
