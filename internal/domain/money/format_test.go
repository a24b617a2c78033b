package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		minor int64
		code  string
		want  string
	}{
		{name: "usd cents", minor: 2550, code: "USD", want: "$25.50"},
		{name: "usd zero", minor: 0, code: "USD", want: "$0.00"},
		{name: "usd single cent", minor: 1, code: "USD", want: "$0.01"},
		{name: "usd grouping", minor: 123456789, code: "USD", want: "$1,234,567.89"},
		{name: "lowercase code", minor: 510, code: "usd", want: "$5.10"},
		{name: "empty code falls back to usd", minor: 100, code: "", want: "$1.00"},
		{name: "unknown code falls back to usd", minor: 100, code: "XYZ", want: "$1.00"},
		{name: "gbp", minor: 99999, code: "GBP", want: "£999.99"},
		{name: "eur symbol after", minor: 123456, code: "EUR", want: "1.234,56\u00a0€"},
		{name: "sek space grouping", minor: 123456, code: "SEK", want: "1\u00a0234,56\u00a0kr"},
		{name: "brl prefix with space", minor: 1050, code: "BRL", want: "R$\u00a010,50"},
		{name: "jpy is not divided", minor: 1234, code: "JPY", want: "¥1,234"},
		{name: "krw is not divided", minor: 5000, code: "KRW", want: "₩5,000"},
		{name: "negative amount", minor: -2550, code: "USD", want: "-$25.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.minor, tt.code))
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	amounts := []int64{0, 1, 9, 10, 99, 100, 101, 999, 1000, 2550, 100000, 123456789, 9007199254740993}

	for _, c := range DefaultCurrencies {
		for _, a := range amounts {
			out := c.Format(a)

			var digits strings.Builder
			for _, r := range strings.TrimSuffix(out, c.Symbol) {
				switch {
				case r >= '0' && r <= '9':
					digits.WriteRune(r)
				case string(r) == c.DecimalSeparator:
					digits.WriteByte('.')
				}
			}

			got, err := decimal.NewFromString(digits.String())
			require.NoError(t, err, "%s %q", c.Code, out)
			assert.True(t, decimal.New(a, -c.Precision).Equal(got),
				"%s: %d rendered as %q parsed back to %s", c.Code, a, out, got)
		}
	}
}

func TestFormatter_Lookup(t *testing.T) {
	f := NewFormatter([]Currency{
		{Code: "eur", Precision: 2, Symbol: "€", DecimalSeparator: ",", ThousandSeparator: "."},
	})

	assert.True(t, f.Known("EUR"))
	assert.False(t, f.Known("USD"))
	assert.Equal(t, "€", f.Lookup(" Eur ").Symbol)
	// No USD in the table: the built-in USD metadata is used.
	assert.Equal(t, "$12.00", f.Format(1200, "CHF"))
}

func TestAmount_Add(t *testing.T) {
	sum, err := New(1000, "USD").Add(New(250, "USD"))
	require.NoError(t, err)
	assert.Equal(t, New(1250, "USD"), sum)

	sum, err = Zero("").Add(New(5, "EUR"))
	require.NoError(t, err)
	assert.Equal(t, New(5, "EUR"), sum)

	_, err = New(1, "USD").Add(New(1, "EUR"))
	require.ErrorIs(t, err, ErrCurrencyMismatch)

	sum, err = Amount{Value: 100, Currency: "USD"}.Add(Amount{Value: 20, Currency: " usd"})
	require.NoError(t, err)
	assert.Equal(t, New(120, "USD"), sum)
}

func TestNew_NormalizesCode(t *testing.T) {
	assert.Equal(t, "EUR", New(1, " eur ").Currency)
	assert.Equal(t, "", Zero("").Currency)
}

func TestAmount_Decimal(t *testing.T) {
	assert.Equal(t, "25.5", New(2550, "USD").Decimal().String())
	assert.Equal(t, "1234", New(1234, "JPY").Decimal().String())
	assert.Equal(t, "$25.50", New(2550, "USD").String())
}
