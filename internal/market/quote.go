package market

import "github.com/shopspring/decimal"

// CoinQuote is one row of the market listing. Rank is the 1-based position in
// the upstream response.
type CoinQuote struct {
	Rank             int                 `json:"rank"`
	Symbol           string              `json:"symbol"`
	Name             string              `json:"name"`
	ImageURL         string              `json:"image_url"`
	CurrentPrice     decimal.Decimal     `json:"current_price"`
	ChangePercent24h decimal.NullDecimal `json:"change_percent_24h"`
	MarketCap        decimal.Decimal     `json:"market_cap"`
}

// DisplayQuote is the formatted form of a CoinQuote.
type DisplayQuote struct {
	Rank        int    `json:"rank"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Price       string `json:"price"`
	Change      string `json:"change"`
	ChangeClass string `json:"change_class"`
	MarketCap   string `json:"market_cap"`
}

// Display formats q with the given currency symbol.
func (q CoinQuote) Display(symbol string) DisplayQuote {
	change, class := FormatChange(q.ChangePercent24h)
	return DisplayQuote{
		Rank:        q.Rank,
		Symbol:      UpperSymbol(q.Symbol),
		Name:        q.Name,
		ImageURL:    q.ImageURL,
		Price:       FormatPrice(q.CurrentPrice, symbol),
		Change:      change,
		ChangeClass: class,
		MarketCap:   symbol + FormatMarketCap(q.MarketCap),
	}
}

// DisplayAll formats a whole listing.
func DisplayAll(quotes []CoinQuote, symbol string) []DisplayQuote {
	out := make([]DisplayQuote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q.Display(symbol))
	}
	return out
}
