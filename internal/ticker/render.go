package ticker

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dgnsrekt/cryptonest/internal/market"
)

var rowsTmpl = template.Must(template.New("rows").Parse(
	`{{range .}}<div class="coin-row">` +
		`<span class="rank">{{.Rank}}</span>` +
		`<div class="coin-info">` +
		`<img src="{{.ImageURL}}" alt="{{.Name}}" width="24" height="24" loading="lazy">` +
		`<div><div class="coin-name">{{.Name}}</div><div class="coin-symbol">{{.Symbol}}</div></div>` +
		`</div>` +
		`<span class="price">{{.Price}}</span>` +
		`<span class="change {{.ChangeClass}}">{{.Change}}</span>` +
		`<span class="market-cap">{{.MarketCap}}</span>` +
		`</div>` + "\n" + `{{end}}`))

var trendingTmpl = template.Must(template.New("trending").Parse(
	`{{range .}}<div class="trending-card">` +
		`<div class="trending-header"><span class="trending-emoji">🔥</span>` +
		`<div><div class="coin-name">{{.Name}}</div><div class="coin-symbol">{{.Symbol}}</div></div>` +
		`</div>` +
		`<div class="trending-price">{{.Price}}</div>` +
		`<span class="trending-change {{.Class}}">{{.Change}}</span>` +
		`</div>` + "\n" + `{{end}}`))

// RenderRows renders the ticker rows. An empty listing renders to "".
func RenderRows(rows []market.DisplayQuote) (string, error) {
	var buf bytes.Buffer
	if err := rowsTmpl.Execute(&buf, rows); err != nil {
		return "", fmt.Errorf("render rows: %w", err)
	}
	return buf.String(), nil
}

type trendingView struct {
	Name   string
	Symbol string
	Price  string
	Change string
	Class  string
}

// RenderTrending renders the static trending list, prefixing prices with symbol.
func RenderTrending(coins []TrendingCoin, symbol string) (string, error) {
	views := make([]trendingView, 0, len(coins))
	for _, c := range coins {
		views = append(views, trendingView{
			Name:   c.Name,
			Symbol: c.Symbol,
			Price:  symbol + c.Price,
			Change: c.Change,
			Class:  c.ChangeClass(),
		})
	}
	var buf bytes.Buffer
	if err := trendingTmpl.Execute(&buf, views); err != nil {
		return "", fmt.Errorf("render trending: %w", err)
	}
	return buf.String(), nil
}
