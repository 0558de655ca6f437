package portfolio

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/shopspring/decimal"
)

func TestCSVFilename(t *testing.T) {
	got := CSVFilename(market.EUR, time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC))
	if got != "cryptonest-portfolio-EUR-20240309.csv" {
		t.Fatalf("CSVFilename() = %q", got)
	}
}

func TestCSV(t *testing.T) {
	v := Valuate([]Holding{
		{Symbol: "btc", Name: "Bitcoin, the first", Quantity: d("0.5"), BuyPriceUSD: d("50000")},
	}, map[string]decimal.Decimal{"BTC": d("55200")}, market.EUR)

	data, err := CSV(v)
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d; want header, separator and one row", len(records))
	}
	if records[0][3] != "Buy Price (€)" || records[0][6] != "24h P&L %" {
		t.Fatalf("header = %q", records[0])
	}
	if records[1][0] != "--------------------" {
		t.Fatalf("separator = %q", records[1])
	}
	want := []string{"Bitcoin, the first", "BTC", "0.500000", "€46000.0000", "€55200.0000", "€27600.00", "20.00%"}
	for i := range want {
		if records[2][i] != want[i] {
			t.Fatalf("row[%d] = %q; want %q", i, records[2][i], want[i])
		}
	}
}
