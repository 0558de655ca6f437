package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
)

type markupOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Stale        string `header:"X-Ticker-Stale"`
	Body         []byte
}

func newMarkupOutput(markup string, stale bool) *markupOutput {
	return &markupOutput{
		ContentType:  "text/html; charset=utf-8",
		CacheControl: "no-store",
		Stale:        strconv.FormatBool(stale),
		Body:         []byte(markup),
	}
}

func registerTickerHandlers(api huma.API, svc Service) {
	type tickerOutput struct {
		Body ticker.View
	}
	huma.Register(api, huma.Operation{OperationID: "get-ticker", Method: http.MethodGet, Path: "/api/v1/ticker", Summary: "Get ticker state, status and quotes", Tags: []string{"Ticker"}},
		func(ctx context.Context, input *struct{}) (*tickerOutput, error) {
			view, err := svc.Ticker(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			return &tickerOutput{Body: view}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-ticker-rows", Method: http.MethodGet, Path: "/api/v1/ticker/rows", Summary: "Get rendered ticker rows", Description: "Returns the current rows container markup. Empty when no listing has loaded yet or the last listing was empty.", Tags: []string{"Ticker"}},
		func(ctx context.Context, input *struct{}) (*markupOutput, error) {
			view, err := svc.Ticker(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			return newMarkupOutput(view.Markup, view.Status.Stale), nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-ticker-trending", Method: http.MethodGet, Path: "/api/v1/ticker/trending", Summary: "Get rendered trending list", Tags: []string{"Ticker"}},
		func(ctx context.Context, input *struct{}) (*markupOutput, error) {
			view, err := svc.Ticker(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			return newMarkupOutput(view.Trending, false), nil
		})

	type currencyOutput struct {
		Body ticker.State
	}
	huma.Register(api, huma.Operation{OperationID: "set-ticker-currency", Method: http.MethodPut, Path: "/api/v1/ticker/currency", Summary: "Change ticker currency", Description: "Updates the selection and starts a reload without waiting for it. The new rows arrive on /events.", Tags: []string{"Ticker"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Currency string `json:"currency" minLength:"1" doc:"Currency code" example:"EUR"`
			}
		}) (*currencyOutput, error) {
			st, err := svc.SetCurrency(ctx, input.Body.Currency)
			if err != nil {
				return nil, mapErr(err)
			}
			return &currencyOutput{Body: st}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "refresh-ticker", Method: http.MethodPost, Path: "/api/v1/ticker/refresh", Summary: "Reload the ticker now", Description: "Runs one load synchronously. Returns 409 when a newer load superseded this one.", Tags: []string{"Ticker"}},
		func(ctx context.Context, input *struct{}) (*tickerOutput, error) {
			view, err := svc.Refresh(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			return &tickerOutput{Body: view}, nil
		})

	type currenciesOutput struct {
		Body struct {
			Currencies []market.CurrencyInfo `json:"currencies"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-currencies", Method: http.MethodGet, Path: "/api/v1/currencies", Summary: "List supported currencies", Tags: []string{"Ticker"}},
		func(ctx context.Context, input *struct{}) (*currenciesOutput, error) {
			out := &currenciesOutput{}
			out.Body.Currencies = svc.Currencies(ctx)
			return out, nil
		})
}
