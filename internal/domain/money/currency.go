package money

import (
	"golang.org/x/text/language"
)

const nbsp = "\u00a0"

// Currency describes how amounts in one ISO 4217 currency are displayed.
type Currency struct {
	Code              string
	Precision         int32
	Symbol            string
	DecimalSeparator  string
	ThousandSeparator string
	// SymbolAfter places the symbol after the number ("12,50 €").
	SymbolAfter bool
	// SymbolSpacing is written between the symbol and the number.
	SymbolSpacing string
	Locale        language.Tag
}

// DefaultCurrencies is the static currency metadata table used by Default.
var DefaultCurrencies = []Currency{
	{Code: "USD", Precision: 2, Symbol: "$", DecimalSeparator: ".", ThousandSeparator: ",", Locale: language.AmericanEnglish},
	{Code: "CAD", Precision: 2, Symbol: "$", DecimalSeparator: ".", ThousandSeparator: ",", Locale: language.MustParse("en-CA")},
	{Code: "AUD", Precision: 2, Symbol: "$", DecimalSeparator: ".", ThousandSeparator: ",", Locale: language.MustParse("en-AU")},
	{Code: "MXN", Precision: 2, Symbol: "$", DecimalSeparator: ".", ThousandSeparator: ",", Locale: language.MustParse("es-MX")},
	{Code: "GBP", Precision: 2, Symbol: "£", DecimalSeparator: ".", ThousandSeparator: ",", Locale: language.BritishEnglish},
	{
		Code: "EUR", Precision: 2, Symbol: "€", DecimalSeparator: ",", ThousandSeparator: ".",
		SymbolAfter: true, SymbolSpacing: nbsp, Locale: language.MustParse("de-DE"),
	},
	{
		Code: "CHF", Precision: 2, Symbol: "CHF", DecimalSeparator: ".", ThousandSeparator: "’",
		SymbolSpacing: nbsp, Locale: language.MustParse("de-CH"),
	},
	{
		Code: "SEK", Precision: 2, Symbol: "kr", DecimalSeparator: ",", ThousandSeparator: nbsp,
		SymbolAfter: true, SymbolSpacing: nbsp, Locale: language.MustParse("sv-SE"),
	},
	{
		Code: "BRL", Precision: 2, Symbol: "R$", DecimalSeparator: ",", ThousandSeparator: ".",
		SymbolSpacing: nbsp, Locale: language.BrazilianPortuguese,
	},
	{Code: "JPY", Precision: 0, Symbol: "¥", DecimalSeparator: ".", ThousandSeparator: ",", Locale: language.Japanese},
	{Code: "KRW", Precision: 0, Symbol: "₩", DecimalSeparator: ".", ThousandSeparator: ",", Locale: language.Korean},
}

// usd backs the fallback when a table carries no USD entry.
var usd = Currency{
	Code:              DefaultCurrency,
	Precision:         2,
	Symbol:            "$",
	DecimalSeparator:  ".",
	ThousandSeparator: ",",
	Locale:            language.AmericanEnglish,
}
