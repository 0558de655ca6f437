package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/forminput"
	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/dgnsrekt/cryptonest/internal/portfolio"
	"github.com/dgnsrekt/cryptonest/internal/snapshot"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
	"github.com/shopspring/decimal"
)

const maxHoldings = 100

// PriceSource looks up current prices keyed by upper-case symbol.
type PriceSource interface {
	SimplePrices(ctx context.Context, symbols []string, currency market.CurrencyCode) (map[string]decimal.Decimal, error)
}

// Service wraps the ticker controller, the snapshot store and the price source
// behind the operations the HTTP API exposes.
type Service struct {
	ticker *ticker.Controller
	snaps  *snapshot.Store
	prices PriceSource
	now    func() time.Time
}

func NewService(t *ticker.Controller, snaps *snapshot.Store, prices PriceSource) *Service {
	return &Service{ticker: t, snaps: snaps, prices: prices, now: time.Now}
}

func (s *Service) requireCurrency(raw string) (market.CurrencyCode, error) {
	if strings.TrimSpace(raw) == "" {
		return "", market.NewError(market.CodeValidation, "currency is required", nil)
	}
	code := market.NormalizeCurrency(strings.TrimSpace(raw))
	if !code.Supported() {
		return "", market.NewError(market.CodeValidation, fmt.Sprintf("unsupported currency %q", raw), nil)
	}
	return code, nil
}

func (s *Service) Ticker(ctx context.Context) (ticker.View, error) {
	return s.ticker.View(), nil
}

// SetCurrency switches the ticker currency and returns without waiting for
// the reload.
func (s *Service) SetCurrency(ctx context.Context, currency string) (ticker.State, error) {
	code, err := s.requireCurrency(currency)
	if err != nil {
		return ticker.State{}, err
	}
	return s.ticker.SetCurrency(string(code)), nil
}

// Refresh runs one load synchronously and returns the resulting view.
func (s *Service) Refresh(ctx context.Context) (ticker.View, error) {
	if err := s.ticker.Load(ctx); err != nil {
		return ticker.View{}, err
	}
	return s.ticker.View(), nil
}

func (s *Service) Currencies(ctx context.Context) []market.CurrencyInfo {
	return market.Currencies()
}

// Valuate validates the holdings, prices them in currency (the ticker's
// current currency when empty) and builds the composition chart.
func (s *Service) Valuate(ctx context.Context, currency string, inputs []forminput.HoldingInput) (portfolio.Report, error) {
	v, err := s.valuate(ctx, currency, inputs)
	if err != nil {
		return portfolio.Report{}, err
	}
	return portfolio.NewReport(v), nil
}

// ExportCSV values the holdings like Valuate and renders them as CSV. It also
// returns the download filename.
func (s *Service) ExportCSV(ctx context.Context, currency string, inputs []forminput.HoldingInput) ([]byte, string, error) {
	v, err := s.valuate(ctx, currency, inputs)
	if err != nil {
		return nil, "", err
	}
	data, err := portfolio.CSV(v)
	if err != nil {
		return nil, "", err
	}
	return data, portfolio.CSVFilename(v.Currency, s.now()), nil
}

func (s *Service) valuate(ctx context.Context, currency string, inputs []forminput.HoldingInput) (portfolio.Valuation, error) {
	if len(inputs) == 0 {
		return portfolio.Valuation{}, market.NewError(market.CodeValidation, "at least one holding is required", nil)
	}
	if len(inputs) > maxHoldings {
		return portfolio.Valuation{}, market.NewError(market.CodeValidation, fmt.Sprintf("at most %d holdings are allowed", maxHoldings), nil)
	}

	code := s.ticker.View().State.Currency
	if strings.TrimSpace(currency) != "" {
		var err error
		if code, err = s.requireCurrency(currency); err != nil {
			return portfolio.Valuation{}, err
		}
	}

	now := s.now()
	holdings := make([]portfolio.Holding, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	symbols := make([]string, 0, len(inputs))
	for i, in := range inputs {
		h, err := forminput.Holding(in, now)
		if err != nil {
			return portfolio.Valuation{}, fmt.Errorf("holdings[%d]: %w", i, err)
		}
		holdings = append(holdings, h)
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}

	prices, err := s.prices.SimplePrices(ctx, symbols, code)
	if err != nil {
		return portfolio.Valuation{}, err
	}
	return portfolio.Valuate(holdings, prices, code), nil
}

func (s *Service) ListSnapshots(ctx context.Context) ([]snapshot.Meta, error) {
	return s.snaps.List()
}

func (s *Service) GetSnapshot(ctx context.Context, id string) (snapshot.Snapshot, error) {
	return s.snaps.Get(strings.TrimSpace(id))
}

func (s *Service) DeleteSnapshot(ctx context.Context, id string) error {
	return s.snaps.Delete(strings.TrimSpace(id))
}
