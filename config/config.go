// Package config defines the immutable run configuration. A Config is built
// once (defaults, optionally overlaid from a file by the CLI) and passed by
// value into each pipeline stage; no package holds mutable process-wide
// settings.
package config

import "time"

// Selection holds screening thresholds. Rates are percentages, prices in
// CNY, volume in ten-thousand CNY, outstanding in hundred-million CNY.
type Selection struct {
	MaxPremiumRate float64 `mapstructure:"max_premium_rate"`
	MinYTM         float64 `mapstructure:"min_ytm"`
	MinDailyVolume float64 `mapstructure:"min_daily_volume"`
	MaxPrice       float64 `mapstructure:"max_price"`
	MinPrice       float64 `mapstructure:"min_price"`
	MinOutstanding float64 `mapstructure:"min_outstanding"`
	// MinRating excludes bonds rated below this grade; empty disables the
	// check.
	MinRating string `mapstructure:"min_rating"`
	TopN      int    `mapstructure:"top_n"`

	// FilterST and FilterForcedRedemption decide, at pipeline build time,
	// whether the risk stage is included at all.
	FilterST               bool `mapstructure:"filter_st"`
	FilterForcedRedemption bool `mapstructure:"filter_forced_redemption"`
}

// Weights are the composite-score factor weights; they should sum to 1.
type Weights struct {
	PremiumRate     float64 `mapstructure:"premium_rate"`
	YTM             float64 `mapstructure:"ytm"`
	DoubleLow       float64 `mapstructure:"double_low"`
	ConversionValue float64 `mapstructure:"conversion_value"`
}

// Valuation holds the option-model parameters the engine treats as
// caller-supplied estimates.
type Valuation struct {
	RiskFreeRate         float64 `mapstructure:"risk_free_rate"`
	DefaultVolatility    float64 `mapstructure:"default_volatility"`
	VolatilityAdjustment float64 `mapstructure:"volatility_adjustment"`
	CallTriggerRatio     float64 `mapstructure:"call_trigger_ratio"`
	PutTriggerRatio      float64 `mapstructure:"put_trigger_ratio"`
	RevisionFraction     float64 `mapstructure:"revision_fraction"`
	RevisionProbability  float64 `mapstructure:"revision_probability"`
}

// Fetch bounds the market-data collaborator.
type Fetch struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// Config is the complete, immutable run configuration.
type Config struct {
	Selection Selection `mapstructure:"selection"`
	Weights   Weights   `mapstructure:"weights"`
	Valuation Valuation `mapstructure:"valuation"`
	Fetch     Fetch     `mapstructure:"fetch"`

	// DoubleLowCoefficient weights the premium percentage in the
	// double-low value: price + premium% × coefficient.
	DoubleLowCoefficient float64 `mapstructure:"double_low_coefficient"`
	DecimalPlaces        int     `mapstructure:"decimal_places"`
	OutputFile           string  `mapstructure:"output_file"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		Selection: Selection{
			MaxPremiumRate:         50.0,
			MinYTM:                 -10.0,
			MinDailyVolume:         100.0,
			MaxPrice:               150.0,
			MinPrice:               90.0,
			MinOutstanding:         0.5,
			TopN:                   30,
			FilterST:               true,
			FilterForcedRedemption: true,
		},
		Weights: Weights{
			PremiumRate:     0.35,
			YTM:             0.25,
			DoubleLow:       0.25,
			ConversionValue: 0.15,
		},
		Valuation: Valuation{
			RiskFreeRate:         0.025,
			DefaultVolatility:    0.35,
			VolatilityAdjustment: 1.1,
			CallTriggerRatio:     1.30,
			PutTriggerRatio:      0.70,
			RevisionFraction:     0.10,
			RevisionProbability:  0.80,
		},
		Fetch: Fetch{
			Timeout:       30 * time.Second,
			MaxRetries:    3,
			RetryInterval: 2 * time.Second,
		},
		DoubleLowCoefficient: 1.0,
		DecimalPlaces:        2,
		OutputFile:           "cb_selection_result.csv",
	}
}
