package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from the given file (YAML/TOML/JSON by
// extension) overlaid on the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Selection.MinPrice > 0 && c.Selection.MaxPrice > 0 && c.Selection.MinPrice > c.Selection.MaxPrice {
		return fmt.Errorf("config: min_price %.2f above max_price %.2f", c.Selection.MinPrice, c.Selection.MaxPrice)
	}
	if c.Valuation.DefaultVolatility <= 0 {
		return fmt.Errorf("config: default_volatility must be positive")
	}
	if c.Valuation.RevisionFraction < 0 || c.Valuation.RevisionFraction >= 1 {
		return fmt.Errorf("config: revision_fraction %.2f outside [0, 1)", c.Valuation.RevisionFraction)
	}
	if c.Valuation.RevisionProbability < 0 || c.Valuation.RevisionProbability > 1 {
		return fmt.Errorf("config: revision_probability %.2f outside [0, 1]", c.Valuation.RevisionProbability)
	}
	if sum := c.Weights.PremiumRate + c.Weights.YTM + c.Weights.DoubleLow + c.Weights.ConversionValue; sum > 0 && (sum < 0.99 || sum > 1.01) {
		return fmt.Errorf("config: factor weights sum to %.2f, want 1", sum)
	}
	return nil
}
