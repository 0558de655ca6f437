package portfolio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/market"
)

// CSVFilename names an export of a portfolio valued in currency.
func CSVFilename(currency market.CurrencyCode, now time.Time) string {
	return fmt.Sprintf("cryptonest-portfolio-%s-%s.csv", currency, now.Format("20060102"))
}

// CSV renders the valuation as a spreadsheet with a header, a dash separator
// row and one row per position.
func CSV(v Valuation) ([]byte, error) {
	sym := v.Symbol
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{
			"Coin", "Symbol", "Quantity",
			fmt.Sprintf("Buy Price (%s)", sym),
			fmt.Sprintf("Current Price (%s)", sym),
			fmt.Sprintf("Value (%s)", sym),
			"24h P&L %",
		},
		{
			strings.Repeat("-", 20), strings.Repeat("-", 10), strings.Repeat("-", 12),
			strings.Repeat("-", 12), strings.Repeat("-", 14), strings.Repeat("-", 15),
			strings.Repeat("-", 12),
		},
	}
	for _, p := range v.Positions {
		rows = append(rows, []string{
			p.Name,
			p.Symbol,
			p.Quantity.StringFixed(6),
			sym + p.BuyPrice.StringFixed(4),
			sym + p.CurrentPrice.StringFixed(4),
			sym + p.CurrentValue.StringFixed(2),
			p.PnLPercent.StringFixed(2) + "%",
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("portfolio csv: %w", err)
	}
	return buf.Bytes(), nil
}
