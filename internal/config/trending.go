package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgnsrekt/cryptonest/internal/ticker"
	"gopkg.in/yaml.v3"
)

// TrendingConfig is the top-level YAML configuration for the trending panel.
type TrendingConfig struct {
	Coins []ticker.TrendingCoin `yaml:"coins"`
}

// LoadTrending reads and validates a trending YAML config file.
// Returns an os.ErrNotExist-wrapped error if the file is absent (caller
// falls back to the built-in list in that case).
func LoadTrending(path string) ([]ticker.TrendingCoin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trending config: %w", err)
	}
	var cfg TrendingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("trending config: %w", err)
	}
	if len(cfg.Coins) < 1 {
		return nil, fmt.Errorf("trending config: at least one coin entry is required")
	}
	for i, c := range cfg.Coins {
		if c.Symbol == "" {
			return nil, fmt.Errorf("trending config: coins[%d] missing symbol", i)
		}
		cfg.Coins[i].Symbol = strings.ToUpper(c.Symbol)
	}
	return cfg.Coins, nil
}
