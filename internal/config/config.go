package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the ticker daemon.
type Config struct {
	// HTTP listener
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// Upstream market data
	CoinGeckoBaseURL string
	CoinGeckoTimeout time.Duration

	// Ticker behavior
	DefaultCurrency  string
	RefreshInterval  time.Duration
	PageSize         int
	OrderedResponses bool
	TrendingConfig   string

	// Snapshot store
	SnapshotDir  string
	SnapshotKeep int

	// Load history
	HistoryDir        string
	HistoryMaxSizeMB  int
	HistoryBufferSize int

	// Failure alerts
	NtfyEndpoint         string
	NtfyFailureThreshold int

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		BindAddr:             getEnvOrDefault("TICKER_BIND_ADDR", "127.0.0.1:8190"),
		PortCandidates:       getEnvListOrDefault("TICKER_PORT_CANDIDATES", []string{"127.0.0.1:8191", "127.0.0.1:8192", "127.0.0.1:8193"}),
		PortAutoFallback:     getEnvBoolOrDefault("TICKER_PORT_AUTO_FALLBACK", true),
		CoinGeckoBaseURL:     getEnvOrDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoTimeout:     time.Duration(getEnvIntOrDefault("COINGECKO_TIMEOUT_MS", 10000)) * time.Millisecond,
		DefaultCurrency:      strings.ToUpper(getEnvOrDefault("TICKER_DEFAULT_CURRENCY", "USD")),
		RefreshInterval:      time.Duration(getEnvIntOrDefault("TICKER_REFRESH_INTERVAL_MS", 30000)) * time.Millisecond,
		PageSize:             getEnvIntOrDefault("TICKER_PAGE_SIZE", 50),
		OrderedResponses:     getEnvBoolOrDefault("TICKER_ORDERED_RESPONSES", true),
		TrendingConfig:       getEnvOrDefault("TICKER_TRENDING_CONFIG", "./config/trending.yaml"),
		SnapshotDir:          getEnvOrDefault("SNAPSHOT_DIR", "./snapshots"),
		SnapshotKeep:         getEnvIntOrDefault("SNAPSHOT_KEEP", 20),
		HistoryDir:           getEnvOrDefault("HISTORY_DIR", "./history"),
		HistoryMaxSizeMB:     getEnvIntOrDefault("HISTORY_MAX_FILE_SIZE_MB", 50),
		HistoryBufferSize:    getEnvIntOrDefault("HISTORY_BUFFER_SIZE", 256),
		NtfyEndpoint:         getEnvOrDefault("NTFY_ENDPOINT", ""),
		NtfyFailureThreshold: getEnvIntOrDefault("NTFY_FAILURE_THRESHOLD", 5),
		LogLevel:             strings.ToLower(getEnvOrDefault("TICKER_LOG_LEVEL", "info")),
		LogFile:              getEnvOrDefault("TICKER_LOG_FILE", "logs/tickerd.log"),
	}
	if cfg.RefreshInterval < time.Second {
		cfg.RefreshInterval = time.Second
	}
	if cfg.CoinGeckoTimeout < 500*time.Millisecond {
		cfg.CoinGeckoTimeout = 500 * time.Millisecond
	}
	if cfg.PageSize < 1 || cfg.PageSize > 250 {
		cfg.PageSize = 50
	}
	if cfg.NtfyFailureThreshold < 1 {
		cfg.NtfyFailureThreshold = 1
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
