package portfolio

import (
	"strings"

	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Holding is one portfolio line as entered. Buy prices are recorded in USD.
type Holding struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	BuyPriceUSD decimal.Decimal `json:"buy_price_usd"`
	BuyDate     string          `json:"buy_date"`
}

// Position is a valued holding in the display currency.
type Position struct {
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	PnLPercent   decimal.Decimal `json:"pnl_percent"`
}

// Valuation is the whole portfolio in one currency.
type Valuation struct {
	Currency   market.CurrencyCode `json:"currency"`
	Symbol     string              `json:"symbol"`
	Positions  []Position          `json:"positions"`
	TotalValue decimal.Decimal     `json:"total_value"`
}

// Valuate prices every holding. prices is keyed by upper-case symbol and
// already denominated in currency; missing prices count as zero.
func Valuate(holdings []Holding, prices map[string]decimal.Decimal, currency market.CurrencyCode) Valuation {
	rate := currency.USDRate()
	v := Valuation{
		Currency:   currency,
		Symbol:     currency.Symbol(),
		Positions:  make([]Position, 0, len(holdings)),
		TotalValue: decimal.Zero,
	}
	for _, h := range holdings {
		sym := strings.ToUpper(h.Symbol)
		current := prices[sym]
		buy := h.BuyPriceUSD.Mul(rate)
		value := h.Quantity.Mul(current)

		pnl := decimal.Zero
		if buy.IsPositive() {
			pnl = current.Sub(buy).Div(buy).Mul(hundred)
		}

		name := h.Name
		if name == "" {
			name = sym
		}
		v.Positions = append(v.Positions, Position{
			Name:         name,
			Symbol:       sym,
			Quantity:     h.Quantity,
			BuyPrice:     buy,
			CurrentPrice: current,
			CurrentValue: value,
			PnLPercent:   pnl,
		})
		v.TotalValue = v.TotalValue.Add(value)
	}
	return v
}
