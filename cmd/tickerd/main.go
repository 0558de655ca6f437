package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/api"
	"github.com/dgnsrekt/cryptonest/internal/coingecko"
	"github.com/dgnsrekt/cryptonest/internal/config"
	"github.com/dgnsrekt/cryptonest/internal/controller"
	"github.com/dgnsrekt/cryptonest/internal/netutil"
	"github.com/dgnsrekt/cryptonest/internal/notify"
	"github.com/dgnsrekt/cryptonest/internal/relay"
	"github.com/dgnsrekt/cryptonest/internal/snapshot"
	"github.com/dgnsrekt/cryptonest/internal/storage"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load ticker config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("tickerd config loaded",
		"bind_addr", cfg.BindAddr,
		"port_auto_fallback", cfg.PortAutoFallback,
		"port_candidates", cfg.PortCandidates,
		"coingecko", cfg.CoinGeckoBaseURL,
		"currency", cfg.DefaultCurrency,
		"interval", cfg.RefreshInterval,
		"page_size", cfg.PageSize,
		"ordered", cfg.OrderedResponses,
		"snapshot_dir", cfg.SnapshotDir,
		"history_dir", cfg.HistoryDir,
		"ntfy_enabled", cfg.NtfyEndpoint != "",
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	ln, err := netutil.Listen(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to bind listener", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}
	bindAddr := ln.Addr().String()

	snapStore, err := snapshot.NewStore(cfg.SnapshotDir, cfg.SnapshotKeep)
	if err != nil {
		slog.Error("failed to create snapshot store", "dir", cfg.SnapshotDir, "error", err)
		os.Exit(1)
	}

	trending, err := config.LoadTrending(cfg.TrendingConfig)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no trending config, using built-in list", "path", cfg.TrendingConfig)
		} else {
			slog.Warn("trending config invalid, using built-in list", "path", cfg.TrendingConfig, "error", err)
		}
		trending = ticker.DefaultTrending()
	}

	gecko := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoTimeout)
	broker := relay.NewBroker()
	history := storage.NewHistory(cfg.HistoryDir, cfg.HistoryBufferSize, cfg.HistoryMaxSizeMB)
	alerter := notify.NewAlerter(&http.Client{Timeout: 10 * time.Second}, cfg.NtfyEndpoint, cfg.NtfyFailureThreshold)
	statusFeed := controller.NewStatusFeed(broker)

	ctl := ticker.New(ticker.Options{
		Fetcher:       gecko,
		Rows:          relay.NewContainer(broker, relay.FeedRows),
		Trending:      relay.NewContainer(broker, relay.FeedTrending),
		Interval:      cfg.RefreshInterval,
		PageSize:      cfg.PageSize,
		Ordered:       cfg.OrderedResponses,
		TrendingCoins: trending,
		Recorder:      snapStore,
		Observers:     []ticker.Observer{statusFeed, history, alerter},
	})
	statusFeed.Bind(func() ticker.Status { return ctl.View().Status })

	svc := controller.NewService(ctl, snapStore, gecko)
	h := api.NewServer(svc, broker)

	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		slog.Info("tickerd listening", "addr", bindAddr, "page", "http://"+bindAddr+"/", "docs", "http://"+bindAddr+"/docs")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("tickerd server failed", "error", err)
			os.Exit(1)
		}
	}()

	initCtx, initCancel := context.WithTimeout(context.Background(), cfg.CoinGeckoTimeout+5*time.Second)
	if err := ctl.Initialize(initCtx, cfg.DefaultCurrency); err != nil {
		slog.Error("ticker initialize failed", "error", err)
	}
	initCancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Open SSE streams would keep Shutdown waiting until the deadline.
	ctl.Close()
	broker.Close()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("tickerd shutdown failed", "error", err)
	}
	if err := history.Close(); err != nil {
		slog.Debug("load history close failed", "error", err)
	}
	alerter.Close()
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
