package market

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	ClassPositive = "positive"
	ClassNegative = "negative"

	zeroChange = "0.00%"
)

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)

	displayLocale = language.AmericanEnglish
)

// FormatNumber renders d with thousands separators and at most three
// fraction digits.
func FormatNumber(d decimal.Decimal) string {
	f, _ := d.Round(3).Float64()
	p := message.NewPrinter(displayLocale)
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}

// FormatPrice prefixes the localized value with the currency symbol.
func FormatPrice(value decimal.Decimal, symbol string) string {
	return symbol + FormatNumber(value)
}

// FormatChange returns the 24h change text and its styling class. A missing
// or zero percentage renders as "0.00%"; anything >= 0 (including missing) is
// positive.
func FormatChange(pct decimal.NullDecimal) (string, string) {
	class := ClassPositive
	if pct.Valid && pct.Decimal.IsNegative() {
		class = ClassNegative
	}
	if !pct.Valid || pct.Decimal.IsZero() {
		return zeroChange, class
	}
	text := pct.Decimal.StringFixed(2)
	if pct.Decimal.IsNegative() && !strings.HasPrefix(text, "-") {
		// -0.001 keeps its sign: "-0.00%".
		text = "-" + text
	}
	return text + "%", class
}

// FormatMarketCap abbreviates a market cap. Thresholds are strict, so exactly
// 1e9 renders as "1000M".
func FormatMarketCap(c decimal.Decimal) string {
	switch {
	case c.GreaterThan(trillion):
		return c.Div(trillion).StringFixed(2) + "T"
	case c.GreaterThan(billion):
		return c.Div(billion).StringFixed(2) + "B"
	case c.GreaterThan(million):
		return c.Div(million).StringFixed(0) + "M"
	default:
		return FormatNumber(c)
	}
}

// UpperSymbol is the ticker symbol as displayed.
func UpperSymbol(s string) string {
	return strings.ToUpper(s)
}
