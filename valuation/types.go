// Package valuation composes the cash-flow, discounting, and option models
// into per-bond indicator bundles. The engine is pure: it performs no I/O
// and the same inputs always produce identical bundles.
package valuation

import (
	"errors"
	"time"

	"github.com/meenmo/cblib/bond"
	"github.com/meenmo/cblib/curve"
	"github.com/meenmo/cblib/option"
)

// Completeness flags whether every indicator in a bundle computed.
type Completeness string

const (
	Complete Completeness = "complete"
	Partial  Completeness = "partial"
)

// Indicator field names, used to report which fields a Partial bundle is
// missing.
const (
	FieldConversionValue  = "conversion_value"
	FieldPremiumRate      = "premium_rate"
	FieldYTM              = "ytm"
	FieldBondFloor        = "bond_floor"
	FieldConversionOption = "conversion_option"
	FieldRevisionOption   = "revision_option"
	FieldCallLoss         = "call_loss"
	FieldFairValue        = "fair_value"
	FieldMispricing       = "mispricing"
)

// Failure reasons, mirroring the engine error taxonomy.
const (
	ReasonInvalidTerms       = "InvalidTerms"
	ReasonNoConvergence      = "NoConvergence"
	ReasonMissingCurveRate   = "MissingCurveRate"
	ReasonMissingTriggerData = "MissingTriggerData"
	ReasonInvalidVolatility  = "InvalidVolatility"
	ReasonInvalidInput       = "InvalidInput"
)

// FieldFailure records one unavailable indicator and why.
type FieldFailure struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// reasonFor maps engine errors onto the failure taxonomy.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, bond.ErrInvalidTerms):
		return ReasonInvalidTerms
	case errors.Is(err, bond.ErrNoConvergence):
		return ReasonNoConvergence
	case errors.Is(err, curve.ErrMissingCurveRate):
		return ReasonMissingCurveRate
	case errors.Is(err, option.ErrMissingTriggerData):
		return ReasonMissingTriggerData
	case errors.Is(err, option.ErrInvalidVolatility):
		return ReasonInvalidVolatility
	default:
		return ReasonInvalidInput
	}
}

// IndicatorBundle is the engine output for one bond in one run. Rates are
// decimal fractions (YTM 0.0150 = 1.50%, PremiumRate -0.12 = -12%); value
// fields are per-bond currency amounts. Fields listed in Failures carry no
// meaning and must not be ranked or filtered on.
type IndicatorBundle struct {
	Code            string    `json:"code"`
	ObservationDate time.Time `json:"observation_date"`

	ConversionValue  float64 `json:"conversion_value"`
	PremiumRate      float64 `json:"premium_rate"`
	YTM              float64 `json:"ytm"`
	BondFloor        float64 `json:"bond_floor"`
	ConversionOption float64 `json:"conversion_option"`
	RevisionOption   float64 `json:"revision_option"`
	CallLoss         float64 `json:"call_loss"`
	FairValue        float64 `json:"fair_value"`
	Mispricing       float64 `json:"mispricing"`

	// Approximate marks a fair value computed with call loss treated as
	// zero because the trigger condition could not be evaluated.
	Approximate bool `json:"approximate,omitempty"`

	Completeness Completeness   `json:"completeness"`
	Failures     []FieldFailure `json:"failures,omitempty"`
}

// Has reports whether the named field computed successfully.
func (b IndicatorBundle) Has(field string) bool {
	for _, f := range b.Failures {
		if f.Field == field {
			return false
		}
	}
	return true
}

// Params holds the shared read-only valuation parameters. Volatility and
// the revision estimates are caller-supplied; the engine derives none of
// them internally.
type Params struct {
	RiskFreeRate float64
	// Volatility is the default annualized volatility applied when an
	// input carries none of its own.
	Volatility float64
	// RevisionFraction is the expected conversion-price cut on a downward
	// revision (0.10 = strike lowered 10%).
	RevisionFraction float64
	// RevisionProbability is the estimated probability the revision
	// triggers before expiry.
	RevisionProbability float64
	Solver              bond.SolverConfig
}

// Input is one bond's valuation task: covenant terms, the market snapshot,
// and optional per-bond overrides.
type Input struct {
	Terms bond.BondTerms
	Quote bond.MarketQuote
	// Volatility overrides Params.Volatility when positive (e.g. realized
	// volatility of this bond's underlying).
	Volatility float64
	// StockCloses is the underlying's recent closing-price history, oldest
	// first, used to evaluate the call-trigger condition. Empty history
	// degrades call loss to MissingTriggerData.
	StockCloses []float64
}
