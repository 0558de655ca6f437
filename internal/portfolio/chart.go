package portfolio

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/shopspring/decimal"
)

var minSliceValue = decimal.RequireFromString("0.01")

var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD", "#98D8C8",
	"#F7DC6F", "#BB8FCE", "#85C1E9", "#F8C471", "#82E0AA", "#F1948A", "#85C1E9",
	"#F7DC6F", "#D7BDE2", "#A9DFBF", "#FAD7A8", "#D5A6BD", "#AED6F1", "#F9E79F",
	"#D2B4DE", "#A3E4D7", "#FAD5A5", "#D4A5A5", "#B2EBF2", "#F4D03F", "#E8DAEF",
	"#A9DFBF", "#FAD7A8", "#D5A6BD", "#AED6F1", "#F9E79F", "#D2B4DE", "#A3E4D7",
	"#F8C7CC", "#D0ECE7", "#FADBC9", "#E8F6F3", "#D5DBDB", "#FAD7A8", "#E6B0AA",
	"#C0EB75", "#F1948A", "#85C1E9", "#F7DC6F", "#D7BDE2", "#A9DFBF",
}

// Slice is one segment of the composition chart.
type Slice struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Color   string          `json:"color"`
	Legend  string          `json:"legend"`
	Tooltip string          `json:"tooltip"`
}

// Color returns the palette entry for index i, switching to golden-angle hues
// once the palette runs out.
func Color(i int) string {
	if i < len(palette) {
		return palette[i]
	}
	hue := math.Mod(float64(i)*137.508, 360)
	return fmt.Sprintf("hsl(%s, 70%%, 55%%)", strconv.FormatFloat(hue, 'f', -1, 64))
}

// SharePercent is value's share of total with one decimal. A zero total
// yields "NaN".
func SharePercent(value, total decimal.Decimal) string {
	if total.IsZero() {
		return "NaN"
	}
	return value.Div(total).Mul(hundred).StringFixed(1)
}

// Legend is the chart legend label for a slice.
func Legend(label string, value, total decimal.Decimal) string {
	return fmt.Sprintf("%s (%s%%)", label, SharePercent(value, total))
}

// Tooltip is the hover text for a slice.
func Tooltip(label string, value, total decimal.Decimal, symbol string) string {
	return fmt.Sprintf("%s: %s (%s%%)", label, market.FormatPrice(value, symbol), SharePercent(value, total))
}

// Slices builds chart segments from positions. Positions without quantity are
// skipped; tiny values are lifted to 0.01 so they stay visible.
func Slices(positions []Position, symbol string) []Slice {
	slices := make([]Slice, 0, len(positions))
	for _, p := range positions {
		if !p.Quantity.IsPositive() {
			continue
		}
		value := p.CurrentValue
		if value.LessThan(minSliceValue) {
			value = minSliceValue
		}
		slices = append(slices, Slice{Label: p.Name, Value: value})
	}

	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Value)
	}
	for i := range slices {
		slices[i].Color = Color(i)
		slices[i].Legend = Legend(slices[i].Label, slices[i].Value, total)
		slices[i].Tooltip = Tooltip(slices[i].Label, slices[i].Value, total, symbol)
	}
	return slices
}

// Report is a valuation together with its chart and display totals.
type Report struct {
	Valuation
	TotalText string  `json:"total_text"`
	Slices    []Slice `json:"slices"`
}

// NewReport formats v for display.
func NewReport(v Valuation) Report {
	return Report{
		Valuation: v,
		TotalText: market.FormatPrice(v.TotalValue, v.Symbol),
		Slices:    Slices(v.Positions, v.Symbol),
	}
}
