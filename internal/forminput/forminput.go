// Package forminput normalizes and validates values typed into the
// portfolio form before they reach the valuation path.
package forminput

import (
	"strings"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/dgnsrekt/cryptonest/internal/portfolio"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Symbol upper-cases raw and drops everything outside A-Z.
func Symbol(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PositiveAmount clears raw when it parses to zero or less. Unparseable
// input is left untouched.
func PositiveAmount(raw string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	if !d.IsPositive() {
		return ""
	}
	return raw
}

// DefaultDate returns raw, or today's date when raw is blank.
func DefaultDate(raw string, now time.Time) string {
	if strings.TrimSpace(raw) != "" {
		return raw
	}
	return now.Format(DateLayout)
}

// HoldingInput is the unvalidated form submission.
type HoldingInput struct {
	Symbol   string `json:"symbol" doc:"Ticker symbol, e.g. BTC"`
	Name     string `json:"name,omitempty"`
	Quantity string `json:"quantity" doc:"Amount held, must be > 0"`
	BuyPrice string `json:"buy_price" doc:"Buy price in USD, must be > 0"`
	BuyDate  string `json:"buy_date,omitempty" doc:"YYYY-MM-DD, defaults to today"`
}

// Holding validates in and converts it to a portfolio holding.
func Holding(in HoldingInput, now time.Time) (portfolio.Holding, error) {
	sym := Symbol(in.Symbol)
	if len(sym) < 2 {
		return portfolio.Holding{}, market.NewError(market.CodeValidation, "symbol must be at least 2 letters", nil)
	}
	qty, err := positive("quantity", in.Quantity)
	if err != nil {
		return portfolio.Holding{}, err
	}
	price, err := positive("buy_price", in.BuyPrice)
	if err != nil {
		return portfolio.Holding{}, err
	}
	date := DefaultDate(in.BuyDate, now)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return portfolio.Holding{}, market.NewError(market.CodeValidation, "buy_date must be YYYY-MM-DD", err)
	}
	return portfolio.Holding{
		Symbol:      sym,
		Name:        strings.TrimSpace(in.Name),
		Quantity:    qty,
		BuyPriceUSD: price,
		BuyDate:     date,
	}, nil
}

func positive(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, market.NewError(market.CodeValidation, field+" is not a number", err)
	}
	if !d.IsPositive() {
		return decimal.Zero, market.NewError(market.CodeValidation, field+" must be greater than zero", nil)
	}
	return d, nil
}
