package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Default formats amounts with DefaultCurrencies.
var Default = NewFormatter(DefaultCurrencies)

// Formatter renders minor-unit amounts using a currency metadata table.
type Formatter struct {
	currencies map[string]Currency
	fallback   Currency
}

// NewFormatter builds a Formatter over the given table. Codes are matched
// case-insensitively. The table's USD entry (or a built-in USD) is the fallback.
func NewFormatter(currencies []Currency) *Formatter {
	f := &Formatter{
		currencies: make(map[string]Currency, len(currencies)),
		fallback:   usd,
	}
	for _, c := range currencies {
		code := normalizeCode(c.Code)
		f.currencies[code] = c
		if code == DefaultCurrency {
			f.fallback = c
		}
	}
	return f
}

// Lookup returns the metadata for code, falling back to USD for empty or
// unknown codes.
func (f *Formatter) Lookup(code string) Currency {
	if c, ok := f.currencies[normalizeCode(code)]; ok {
		return c
	}
	return f.fallback
}

// Known reports whether code is present in the table.
func (f *Formatter) Known(code string) bool {
	_, ok := f.currencies[normalizeCode(code)]
	return ok
}

// Format renders minor units of the given currency, e.g. (2550, "USD") -> "$25.50"
// and (1234, "JPY") -> "¥1,234".
func (f *Formatter) Format(minor int64, code string) string {
	return f.Lookup(code).Format(minor)
}

// Format renders minor units of c.
func (c Currency) Format(minor int64) string {
	// Zero-decimal currencies keep minor == major units.
	d := decimal.New(minor, -c.Precision)

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
		d = d.Abs()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(c.Precision), ".")
	if !c.SymbolAfter {
		b.WriteString(c.Symbol)
		b.WriteString(c.SymbolSpacing)
	}
	b.WriteString(group(whole, c.ThousandSeparator))
	if c.Precision > 0 {
		b.WriteString(c.DecimalSeparator)
		b.WriteString(frac)
	}
	if c.SymbolAfter {
		b.WriteString(c.SymbolSpacing)
		b.WriteString(c.Symbol)
	}
	return b.String()
}

// Format renders minor units with the default table.
func Format(minor int64, code string) string {
	return Default.Format(minor, code)
}

// group inserts sep between every three digits counted from the right.
func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
