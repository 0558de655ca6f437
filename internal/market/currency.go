package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode is a three-letter display/fetch denomination.
type CurrencyCode string

const (
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
	GBP CurrencyCode = "GBP"
	INR CurrencyCode = "INR"
	JPY CurrencyCode = "JPY"
	CAD CurrencyCode = "CAD"
	AUD CurrencyCode = "AUD"
)

// DefaultCurrency is used when no currency has been selected.
const DefaultCurrency = USD

// FallbackSymbol is shown for codes outside the supported table.
const FallbackSymbol = "$"

// CurrencyInfo describes one supported currency.
type CurrencyInfo struct {
	Code   CurrencyCode    `json:"code"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"usd_rate" doc:"Static USD conversion rate used for stored buy prices"`
}

// Order matches the currency selector.
var supported = []CurrencyInfo{
	{Code: USD, Symbol: "$", Rate: decimal.NewFromInt(1)},
	{Code: EUR, Symbol: "€", Rate: decimal.RequireFromString("0.92")},
	{Code: GBP, Symbol: "£", Rate: decimal.RequireFromString("0.79")},
	{Code: INR, Symbol: "₹", Rate: decimal.RequireFromString("84.5")},
	{Code: JPY, Symbol: "¥", Rate: decimal.RequireFromString("150.2")},
	{Code: CAD, Symbol: "C$", Rate: decimal.RequireFromString("1.38")},
	{Code: AUD, Symbol: "A$", Rate: decimal.RequireFromString("1.52")},
}

// Currencies returns the supported currency table in selector order.
func Currencies() []CurrencyInfo {
	out := make([]CurrencyInfo, len(supported))
	copy(out, supported)
	return out
}

// NormalizeCurrency trims and uppercases a code. Empty input yields the default.
func NormalizeCurrency(raw string) CurrencyCode {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return DefaultCurrency
	}
	return CurrencyCode(code)
}

func lookup(code CurrencyCode) (CurrencyInfo, bool) {
	for _, c := range supported {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencyInfo{}, false
}

// Supported reports whether code is in the currency table.
func (c CurrencyCode) Supported() bool {
	_, ok := lookup(c)
	return ok
}

// Symbol returns the display symbol, "$" for unknown codes.
func (c CurrencyCode) Symbol() string {
	if info, ok := lookup(c); ok {
		return info.Symbol
	}
	return FallbackSymbol
}

// USDRate returns the static rate from USD, 1 for unknown codes.
func (c CurrencyCode) USDRate() decimal.Decimal {
	if info, ok := lookup(c); ok {
		return info.Rate
	}
	return decimal.NewFromInt(1)
}

// Query is the lowercase form used by the upstream API.
func (c CurrencyCode) Query() string {
	return strings.ToLower(string(c))
}

func (c CurrencyCode) String() string { return string(c) }
