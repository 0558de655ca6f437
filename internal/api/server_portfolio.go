package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/dgnsrekt/cryptonest/internal/forminput"
	"github.com/dgnsrekt/cryptonest/internal/portfolio"
)

type portfolioInput struct {
	Body struct {
		Currency string                   `json:"currency,omitempty" doc:"Currency code; defaults to the ticker currency" example:"USD"`
		Holdings []forminput.HoldingInput `json:"holdings" minItems:"1" maxItems:"100"`
	}
}

func registerPortfolioHandlers(api huma.API, svc Service) {
	type valuationOutput struct {
		Body portfolio.Report
	}
	huma.Register(api, huma.Operation{OperationID: "portfolio-valuation", Method: http.MethodPost, Path: "/api/v1/portfolio/valuation", Summary: "Value a portfolio", Description: "Prices the holdings in the requested currency (defaults to the ticker currency) and returns P&L plus composition chart slices.", Tags: []string{"Portfolio"}},
		func(ctx context.Context, input *portfolioInput) (*valuationOutput, error) {
			report, err := svc.Valuate(ctx, input.Body.Currency, input.Body.Holdings)
			if err != nil {
				return nil, mapErr(err)
			}
			return &valuationOutput{Body: report}, nil
		})

	type csvOutput struct {
		ContentType        string `header:"Content-Type"`
		ContentDisposition string `header:"Content-Disposition"`
		Body               []byte
	}
	huma.Register(api, huma.Operation{OperationID: "portfolio-export-csv", Method: http.MethodPost, Path: "/api/v1/portfolio/export.csv", Summary: "Export a valued portfolio as CSV", Description: "Values the holdings like /api/v1/portfolio/valuation and returns them as a CSV attachment.", Tags: []string{"Portfolio"}},
		func(ctx context.Context, input *portfolioInput) (*csvOutput, error) {
			data, filename, err := svc.ExportCSV(ctx, input.Body.Currency, input.Body.Holdings)
			if err != nil {
				return nil, mapErr(err)
			}
			return &csvOutput{
				ContentType:        "text/csv; charset=utf-8",
				ContentDisposition: `attachment; filename="` + filename + `"`,
				Body:               data,
			}, nil
		})
}
