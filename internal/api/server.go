package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/dgnsrekt/cryptonest/internal/forminput"
	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/dgnsrekt/cryptonest/internal/portfolio"
	"github.com/dgnsrekt/cryptonest/internal/relay"
	"github.com/dgnsrekt/cryptonest/internal/snapshot"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	apiTitle      = "Cryptonest Ticker API"
	feedsDocsPath = "/docs/feeds"
)

type Service interface {
	Ticker(ctx context.Context) (ticker.View, error)
	SetCurrency(ctx context.Context, currency string) (ticker.State, error)
	Refresh(ctx context.Context) (ticker.View, error)
	Currencies(ctx context.Context) []market.CurrencyInfo
	Valuate(ctx context.Context, currency string, holdings []forminput.HoldingInput) (portfolio.Report, error)
	ExportCSV(ctx context.Context, currency string, holdings []forminput.HoldingInput) ([]byte, string, error)
	ListSnapshots(ctx context.Context) ([]snapshot.Meta, error)
	GetSnapshot(ctx context.Context, id string) (snapshot.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

func NewServer(svc Service, broker *relay.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig(apiTitle, "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	docs, err := renderDocs(cfg.Info.Title, cfg.OpenAPIPath+".json",
		docsLink{Href: feedsDocsPath, Label: "Live Feed Docs →"},
		docsLink{Href: "/", Label: "Ticker"},
	)
	if err != nil {
		slog.Error("docs page render failed", "error", err)
		docs = "<!doctype html><title>" + apiTitle + "</title><a href=\"" + cfg.OpenAPIPath + ".json\">OpenAPI</a>"
	}

	router.Get("/", htmlPage(indexHTML))
	router.Get("/docs", htmlPage(docs))
	router.Get(feedsDocsPath, htmlPage(feedsDocsHTML))
	router.Get("/events", relay.SSEHandler(broker))
	router.Get("/ws", relay.WebSocketHandler(broker))

	registerHealthHandlers(api, broker)
	registerTickerHandlers(api, svc)
	registerPortfolioHandlers(api, svc)
	registerSnapshotHandlers(api, svc)

	return router
}

func htmlPage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(page)); err != nil {
			slog.Debug("page response write failed", "path", r.URL.Path, "error", err)
		}
	}
}

func registerHealthHandlers(api huma.API, broker *relay.Broker) {
	type healthOutput struct {
		Body struct {
			Status  string `json:"status"`
			Clients int    `json:"clients" doc:"Connected SSE and WebSocket clients"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			out.Body.Clients = broker.ClientCount()
			return out, nil
		})
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ticker.ErrClosed) {
		return huma.Error503ServiceUnavailable("ticker is shutting down")
	}
	var coded *market.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case market.CodeValidation:
			return huma.Error400BadRequest(err.Error())
		case market.CodeSnapshotNotFound:
			return huma.Error404NotFound(coded.Message)
		case market.CodeSuperseded:
			return huma.Error409Conflict(coded.Message)
		case market.CodeUpstreamUnavailable, market.CodeUpstreamStatus, market.CodeDecodeFailure:
			return huma.Error502BadGateway(coded.Message)
		case market.CodeNoData:
			return huma.Error503ServiceUnavailable(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
