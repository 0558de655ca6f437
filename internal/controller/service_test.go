package controller

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/forminput"
	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/dgnsrekt/cryptonest/internal/relay"
	"github.com/dgnsrekt/cryptonest/internal/snapshot"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
	"github.com/shopspring/decimal"
)

type staticFetcher struct {
	err error
}

func (f staticFetcher) TopCoins(ctx context.Context, currency market.CurrencyCode, perPage int) ([]market.CoinQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []market.CoinQuote{{
		Rank:         1,
		Symbol:       "btc",
		Name:         "Bitcoin",
		CurrentPrice: decimal.NewFromInt(43250),
		MarketCap:    decimal.NewFromInt(850_000_000_000),
	}}, nil
}

type stubPrices struct {
	gotSymbols  []string
	gotCurrency market.CurrencyCode
	prices      map[string]decimal.Decimal
	err         error
}

func (s *stubPrices) SimplePrices(ctx context.Context, symbols []string, currency market.CurrencyCode) (map[string]decimal.Decimal, error) {
	s.gotSymbols = symbols
	s.gotCurrency = currency
	return s.prices, s.err
}

func newTestService(t *testing.T, f ticker.Fetcher, prices PriceSource) (*Service, *ticker.Controller) {
	t.Helper()
	snaps, err := snapshot.NewStore(t.TempDir(), 5)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctl := ticker.New(ticker.Options{Fetcher: f, Recorder: snaps, Ordered: true})
	t.Cleanup(ctl.Close)
	svc := NewService(ctl, snaps, prices)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc, ctl
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var got *market.CodedError
	if !errors.As(err, &got) {
		t.Fatalf("error = %v (%T); want *market.CodedError", err, err)
	}
	if got.Code != code {
		t.Fatalf("code = %q; want %q", got.Code, code)
	}
}

func TestSetCurrencyValidation(t *testing.T) {
	svc, _ := newTestService(t, staticFetcher{}, &stubPrices{})

	_, err := svc.SetCurrency(context.Background(), "   ")
	requireCode(t, err, market.CodeValidation)

	_, err = svc.SetCurrency(context.Background(), "XXX")
	requireCode(t, err, market.CodeValidation)

	st, err := svc.SetCurrency(context.Background(), "gbp")
	if err != nil {
		t.Fatalf("SetCurrency() error = %v", err)
	}
	if st.Currency != market.GBP || st.Symbol != "£" {
		t.Fatalf("state = %+v", st)
	}
}

func TestRefreshRecordsSnapshot(t *testing.T) {
	svc, _ := newTestService(t, staticFetcher{}, &stubPrices{})

	view, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !view.Status.HasData || view.Status.Count != 1 {
		t.Fatalf("status = %+v", view.Status)
	}
	if !strings.Contains(view.Markup, "BTC") {
		t.Fatalf("markup = %q; want BTC row", view.Markup)
	}

	metas, err := svc.ListSnapshots(context.Background())
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("snapshots = %d; want 1", len(metas))
	}
	snap, err := svc.GetSnapshot(context.Background(), metas[0].ID)
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if len(snap.Quotes) != 1 || snap.Currency != market.USD {
		t.Fatalf("snapshot = %+v", snap)
	}
	if err := svc.DeleteSnapshot(context.Background(), metas[0].ID); err != nil {
		t.Fatalf("DeleteSnapshot() error = %v", err)
	}
	_, err = svc.GetSnapshot(context.Background(), metas[0].ID)
	requireCode(t, err, market.CodeSnapshotNotFound)
}

func TestRefreshReturnsUpstreamError(t *testing.T) {
	upstream := market.NewError(market.CodeUpstreamStatus, "status 429", nil)
	svc, _ := newTestService(t, staticFetcher{err: upstream}, &stubPrices{})

	_, err := svc.Refresh(context.Background())
	requireCode(t, err, market.CodeUpstreamStatus)
}

func TestValuate(t *testing.T) {
	prices := &stubPrices{prices: map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(46000),
		"ETH": decimal.NewFromInt(2300),
	}}
	svc, _ := newTestService(t, staticFetcher{}, prices)

	report, err := svc.Valuate(context.Background(), "eur", []forminput.HoldingInput{
		{Symbol: "btc", Quantity: "1", BuyPrice: "40000"},
		{Symbol: "eth", Quantity: "2", BuyPrice: "2500", BuyDate: "2024-01-02"},
		{Symbol: "BTC", Quantity: "0.5", BuyPrice: "30000"},
	})
	if err != nil {
		t.Fatalf("Valuate() error = %v", err)
	}
	if prices.gotCurrency != market.EUR {
		t.Fatalf("price currency = %q; want EUR", prices.gotCurrency)
	}
	if strings.Join(prices.gotSymbols, ",") != "BTC,ETH" {
		t.Fatalf("price symbols = %v; want deduplicated BTC,ETH", prices.gotSymbols)
	}
	if !report.TotalValue.Equal(decimal.NewFromInt(73600)) {
		t.Fatalf("total = %s; want 73600", report.TotalValue)
	}
	if report.TotalText != "€73,600" {
		t.Fatalf("total text = %q", report.TotalText)
	}
	if len(report.Slices) != 3 {
		t.Fatalf("slices = %d; want 3", len(report.Slices))
	}
	if report.Positions[0].BuyPrice.String() != "36800" {
		t.Fatalf("converted buy price = %s; want 36800", report.Positions[0].BuyPrice)
	}
}

func TestValuateValidation(t *testing.T) {
	svc, _ := newTestService(t, staticFetcher{}, &stubPrices{})

	_, err := svc.Valuate(context.Background(), "", nil)
	requireCode(t, err, market.CodeValidation)

	_, err = svc.Valuate(context.Background(), "ZZZ", []forminput.HoldingInput{{Symbol: "BTC", Quantity: "1", BuyPrice: "1"}})
	requireCode(t, err, market.CodeValidation)

	_, err = svc.Valuate(context.Background(), "", []forminput.HoldingInput{{Symbol: "BTC", Quantity: "0", BuyPrice: "1"}})
	requireCode(t, err, market.CodeValidation)
	if !strings.Contains(err.Error(), "holdings[0]") {
		t.Fatalf("error = %q; want holding index", err)
	}
}

func TestStatusFeedPublishes(t *testing.T) {
	broker := relay.NewBroker()
	feed := NewStatusFeed(broker)

	feed.ObserveLoad(ticker.Outcome{Seq: 1})
	if _, ok := broker.LatestPayload(relay.FeedStatus); ok {
		t.Fatal("unbound feed should not publish")
	}

	feed.Bind(func() ticker.Status { return ticker.Status{HasData: true, Count: 50, AppliedSeq: 3} })
	feed.ObserveLoad(ticker.Outcome{Seq: 4, Superseded: true})
	if _, ok := broker.LatestPayload(relay.FeedStatus); ok {
		t.Fatal("superseded outcome should not publish")
	}

	feed.ObserveLoad(ticker.Outcome{Seq: 3, Applied: true})
	payload, ok := broker.LatestPayload(relay.FeedStatus)
	if !ok {
		t.Fatal("expected status payload")
	}
	var st ticker.Status
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !st.HasData || st.Count != 50 || st.AppliedSeq != 3 {
		t.Fatalf("status = %+v", st)
	}
}

func TestStatusFeedPublishesNewestLast(t *testing.T) {
	broker := relay.NewBroker()
	feed := NewStatusFeed(broker)

	var seq atomic.Uint64
	feed.Bind(func() ticker.Status {
		n := seq.Add(1)
		// Widen the window between reading and publishing.
		time.Sleep(time.Millisecond)
		return ticker.Status{AppliedSeq: n}
	})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed.ObserveLoad(ticker.Outcome{Seq: uint64(i + 1), Applied: true})
		}()
	}
	wg.Wait()

	payload, ok := broker.LatestPayload(relay.FeedStatus)
	if !ok {
		t.Fatal("expected status payload")
	}
	var st ticker.Status
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.AppliedSeq != 20 {
		t.Fatalf("latest AppliedSeq = %d; want 20", st.AppliedSeq)
	}
}

func TestExportCSV(t *testing.T) {
	prices := &stubPrices{prices: map[string]decimal.Decimal{"ETH": decimal.NewFromInt(2000)}}
	svc, _ := newTestService(t, staticFetcher{}, prices)

	data, filename, err := svc.ExportCSV(context.Background(), "", []forminput.HoldingInput{
		{Symbol: "eth", Name: "Ethereum", Quantity: "1.5", BuyPrice: "1000"},
	})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if filename != "cryptonest-portfolio-USD-20240601.csv" {
		t.Fatalf("filename = %q", filename)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[2] != "Ethereum,ETH,1.500000,$1000.0000,$2000.0000,$3000.00,100.00%" {
		t.Fatalf("csv = %q", data)
	}

	_, _, err = svc.ExportCSV(context.Background(), "", nil)
	requireCode(t, err, market.CodeValidation)
}
