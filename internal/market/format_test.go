package market

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000000000000", "1000.00B"},
		{"1000000000001", "1.00T"},
		{"2500000000000", "2.50T"},
		{"999000000000", "999.00B"},
		{"1000000000", "1000M"},
		{"1500000", "2M"},
		{"1000000", "1,000,000"},
		{"999999", "999,999"},
		{"0", "0"},
	}
	for _, tt := range tests {
		if got := FormatMarketCap(dec(tt.in)); got != tt.want {
			t.Errorf("FormatMarketCap(%s) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMarketCapBillionBoundaryIsNotB(t *testing.T) {
	if got := FormatMarketCap(dec("1e9")); got == "1.00B" {
		t.Fatalf("FormatMarketCap(1e9) = %q; strict threshold must not yield B", got)
	}
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		name      string
		in        decimal.NullDecimal
		wantText  string
		wantClass string
	}{
		{"missing", decimal.NullDecimal{}, "0.00%", ClassPositive},
		{"zero", decimal.NewNullDecimal(decimal.Zero), "0.00%", ClassPositive},
		{"negative rounds", decimal.NewNullDecimal(dec("-5.555")), "-5.56%", ClassNegative},
		{"positive", decimal.NewNullDecimal(dec("3.14159")), "3.14%", ClassPositive},
		{"tiny negative", decimal.NewNullDecimal(dec("-0.2")), "-0.20%", ClassNegative},
		{"negative rounding to zero", decimal.NewNullDecimal(dec("-0.001")), "-0.00%", ClassNegative},
		{"positive rounding to zero", decimal.NewNullDecimal(dec("0.004")), "0.00%", ClassPositive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, class := FormatChange(tt.in)
			if text != tt.wantText {
				t.Fatalf("text = %q; want %q", text, tt.wantText)
			}
			if class != tt.wantClass {
				t.Fatalf("class = %q; want %q", class, tt.wantClass)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		value  string
		symbol string
		want   string
	}{
		{"43250.5", "$", "$43,250.5"},
		{"1234567", "€", "€1,234,567"},
		{"0.5", "£", "£0.5"},
		{"12.25", "C$", "C$12.25"},
	}
	for _, tt := range tests {
		if got := FormatPrice(dec(tt.value), tt.symbol); got != tt.want {
			t.Errorf("FormatPrice(%s, %s) = %q; want %q", tt.value, tt.symbol, got, tt.want)
		}
	}
}

func TestDisplayUppercasesSymbol(t *testing.T) {
	q := CoinQuote{
		Rank:             1,
		Symbol:           "btc",
		Name:             "Bitcoin",
		CurrentPrice:     dec("65000"),
		ChangePercent24h: decimal.NewNullDecimal(dec("-1.234")),
		MarketCap:        dec("1280000000000"),
	}
	got := q.Display("$")
	if got.Symbol != "BTC" {
		t.Fatalf("Symbol = %q; want BTC", got.Symbol)
	}
	if got.Price != "$65,000" {
		t.Fatalf("Price = %q; want $65,000", got.Price)
	}
	if got.Change != "-1.23%" || got.ChangeClass != ClassNegative {
		t.Fatalf("Change = %q/%q; want -1.23%%/negative", got.Change, got.ChangeClass)
	}
	if got.MarketCap != "$1.28T" {
		t.Fatalf("MarketCap = %q; want $1.28T", got.MarketCap)
	}
}
