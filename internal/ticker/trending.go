package ticker

import "strings"

// TrendingCoin is one entry of the decorative trending list. It is static
// data, unrelated to the live feed.
type TrendingCoin struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Change string `json:"change" yaml:"change"`
	Price  string `json:"price" yaml:"price"`
}

// ChangeClass styles a trending change by its leading sign.
func (c TrendingCoin) ChangeClass() string {
	if strings.HasPrefix(c.Change, "+") {
		return "positive"
	}
	return "negative"
}

// DefaultTrending is used when no trending file is configured.
func DefaultTrending() []TrendingCoin {
	return []TrendingCoin{
		{Name: "PEPE", Symbol: "PEPE", Change: "+15.2%", Price: "0.000012"},
		{Name: "WIF", Symbol: "WIF", Change: "+12.8%", Price: "2.45"},
		{Name: "BONK", Symbol: "BONK", Change: "-8.3%", Price: "0.000034"},
		{Name: "FLOKI", Symbol: "FLOKI", Change: "+9.7%", Price: "0.00023"},
	}
}
