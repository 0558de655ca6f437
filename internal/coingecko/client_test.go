package coingecko

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/dgnsrekt/cryptonest/internal/market"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const marketsBody = `[
  {"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png","current_price":65000.12,"price_change_percentage_24h":-5.555,"market_cap":1280000000000},
  {"id":"tether","symbol":"usdt","name":"Tether","image":"https://img/usdt.png","current_price":1,"price_change_percentage_24h":null,"market_cap":110000000000}
]`

func TestTopCoinsBuildsQueryAndRanks(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		return jsonResponse(http.StatusOK, marketsBody), nil
	})}

	c := NewClientWithHTTP("http://gecko.test/api/v3/", hc)
	quotes, err := c.TopCoins(context.Background(), market.EUR, 50)
	if err != nil {
		t.Fatalf("TopCoins() error = %v", err)
	}

	if gotPath != "/api/v3/coins/markets" {
		t.Fatalf("path = %q; want /api/v3/coins/markets", gotPath)
	}
	wantQuery := map[string]string{
		"vs_currency":             "eur",
		"order":                   "market_cap_desc",
		"per_page":                "50",
		"page":                    "1",
		"sparkline":               "false",
		"price_change_percentage": "24h",
	}
	for k, v := range wantQuery {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q; want %q", k, gotQuery[k], v)
		}
	}

	if len(quotes) != 2 {
		t.Fatalf("len(quotes) = %d; want 2", len(quotes))
	}
	if quotes[0].Rank != 1 || quotes[1].Rank != 2 {
		t.Fatalf("ranks = %d,%d; want 1,2", quotes[0].Rank, quotes[1].Rank)
	}
	if got := quotes[0].ChangePercent24h.Decimal.StringFixed(3); got != "-5.555" {
		t.Fatalf("change = %s; want -5.555", got)
	}
	if quotes[1].ChangePercent24h.Valid {
		t.Fatal("null change decoded as present")
	}
}

func TestTopCoinsEmptyList(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	})}
	quotes, err := NewClientWithHTTP("http://gecko.test", hc).TopCoins(context.Background(), market.USD, 50)
	if err != nil {
		t.Fatalf("TopCoins() error = %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("len(quotes) = %d; want 0", len(quotes))
	}
}

func TestTopCoinsErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		rt       roundTripFunc
		wantCode string
	}{
		{
			name: "network",
			rt: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			wantCode: market.CodeUpstreamUnavailable,
		},
		{
			name: "status",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, `{"status":{"error_code":429}}`), nil
			},
			wantCode: market.CodeUpstreamStatus,
		},
		{
			name: "not json",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `<html>oops</html>`), nil
			},
			wantCode: market.CodeDecodeFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClientWithHTTP("http://gecko.test", &http.Client{Transport: tt.rt})
			_, err := c.TopCoins(context.Background(), market.USD, 50)
			var coded *market.CodedError
			if !errors.As(err, &coded) {
				t.Fatalf("error = %v (%T); want *market.CodedError", err, err)
			}
			if coded.Code != tt.wantCode {
				t.Fatalf("code = %q; want %q", coded.Code, tt.wantCode)
			}
		})
	}
}

func TestSimplePricesMapsSymbols(t *testing.T) {
	var gotIDs string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotIDs = r.URL.Query().Get("ids")
		return jsonResponse(http.StatusOK, `{"bitcoin":{"usd":65000},"avalanche-2":{"usd":30.5}}`), nil
	})}

	prices, err := NewClientWithHTTP("http://gecko.test", hc).SimplePrices(context.Background(), []string{"btc", "AVAX", "NOPE"}, market.USD)
	if err != nil {
		t.Fatalf("SimplePrices() error = %v", err)
	}
	if gotIDs != "bitcoin,avalanche-2,nope" {
		t.Fatalf("ids = %q", gotIDs)
	}
	if got := prices["BTC"].String(); got != "65000" {
		t.Fatalf("BTC = %s; want 65000", got)
	}
	if got := prices["AVAX"].String(); got != "30.5" {
		t.Fatalf("AVAX = %s; want 30.5", got)
	}
	if !prices["NOPE"].IsZero() {
		t.Fatalf("NOPE = %s; want 0", prices["NOPE"])
	}
}
