package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	maxErrorBody = 512
)

// Client reads public market data. It holds no state besides its transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client. A zero timeout leaves requests bounded only by
// their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP builds a client around an existing http.Client.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	c := NewClient(baseURL, 0)
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// TopCoins lists the top assets by market cap, denominated in currency, with
// the 24h percent change. Rank is assigned from response position.
func (c *Client) TopCoins(ctx context.Context, currency market.CurrencyCode, perPage int) ([]market.CoinQuote, error) {
	q := url.Values{}
	q.Set("vs_currency", currency.Query())
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")

	var coins []marketCoin
	if err := c.getJSON(ctx, "/coins/markets", q, &coins); err != nil {
		return nil, err
	}

	quotes := make([]market.CoinQuote, 0, len(coins))
	for i, coin := range coins {
		quotes = append(quotes, market.CoinQuote{
			Rank:             i + 1,
			Symbol:           coin.Symbol,
			Name:             coin.Name,
			ImageURL:         coin.Image,
			CurrentPrice:     coin.CurrentPrice.Decimal,
			ChangePercent24h: coin.PriceChangePercentage24h,
			MarketCap:        coin.MarketCap.Decimal,
		})
	}
	slog.Debug("coingecko markets fetched", "currency", currency, "count", len(quotes))
	return quotes, nil
}

// CoinID resolves a ticker symbol to a CoinGecko id.
func CoinID(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if id, ok := symbolIDs[s]; ok {
		return id
	}
	return strings.ToLower(s)
}

// SimplePrices fetches current prices for all symbols in one call. Symbols the
// upstream does not know are returned with a zero price.
func (c *Client) SimplePrices(ctx context.Context, symbols []string, currency market.CurrencyCode) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))
	if len(symbols) == 0 {
		return prices, nil
	}

	ids := make([]string, 0, len(symbols))
	for _, s := range symbols {
		ids = append(ids, CoinID(s))
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", currency.Query())

	var resp simplePriceResponse
	if err := c.getJSON(ctx, "/simple/price", q, &resp); err != nil {
		return nil, err
	}

	for _, s := range symbols {
		key := strings.ToUpper(strings.TrimSpace(s))
		price := decimal.Zero
		if byCurrency, ok := resp[CoinID(s)]; ok {
			if p, ok := byCurrency[currency.Query()]; ok && p.Valid {
				price = p.Decimal
			}
		}
		if price.IsZero() {
			slog.Debug("coingecko price missing", "symbol", key, "coin_id", CoinID(s))
		}
		prices[key] = price
	}
	return prices, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return market.NewError(market.CodeUpstreamUnavailable, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return market.NewError(market.CodeUpstreamUnavailable, "GET "+path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Debug("coingecko body close failed", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return market.NewError(market.CodeUpstreamStatus,
			fmt.Sprintf("GET %s: %s - %s", path, resp.Status, strings.TrimSpace(string(body))), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return market.NewError(market.CodeUpstreamUnavailable, "read body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return market.NewError(market.CodeDecodeFailure, "decode "+path, err)
	}
	return nil
}
