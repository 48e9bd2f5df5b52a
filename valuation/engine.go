package valuation

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"github.com/meenmo/cblib/bond"
	"github.com/meenmo/cblib/curve"
	"github.com/meenmo/cblib/option"
	"github.com/meenmo/cblib/utils"
)

// Engine values convertible bonds against a shared read-only credit curve
// and parameter set. Safe for concurrent use.
type Engine struct {
	curve  *curve.CreditCurve
	params Params
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default engine is silent.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine. A nil curve fails every curve-dependent field with
// MissingCurveRate rather than panicking; a zero Solver takes the default
// configuration so callers only set what they mean to override.
func New(c *curve.CreditCurve, params Params, opts ...Option) *Engine {
	if params.Solver == (bond.SolverConfig{}) {
		params.Solver = bond.DefaultSolverConfig()
	}
	e := &Engine{curve: c, params: params}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Value computes the full indicator bundle for one bond. Failures are
// isolated per field: an unavailable YTM leaves the option-side indicators
// intact and vice versa. The context deadline maps to the NoConvergence/
// Partial path, never to a panic or abort.
func (e *Engine) Value(ctx context.Context, in Input) IndicatorBundle {
	b := IndicatorBundle{
		Code:            in.Terms.Code,
		ObservationDate: in.Quote.Date,
	}
	fail := func(field string, err error) {
		b.Failures = append(b.Failures, FieldFailure{
			Field:  field,
			Reason: reasonFor(err),
			Detail: err.Error(),
		})
	}

	terms, quote := in.Terms, in.Quote

	// Conversion value and premium need only the quote and strike.
	if cv := terms.ConversionValue(quote.StockPrice); cv > 0 {
		b.ConversionValue = cv
		b.PremiumRate = (quote.BondPrice - cv) / cv
	} else {
		err := fmt.Errorf("%w: conversion price %.4f", bond.ErrInvalidTerms, terms.ConversionPrice)
		fail(FieldConversionValue, err)
		fail(FieldPremiumRate, err)
	}

	sched, schedErr := bond.MaturitySchedule(terms, quote.Date)
	if schedErr != nil {
		// Fatal for this bond: no schedule, no schedule-derived fields.
		fail(FieldYTM, schedErr)
		fail(FieldBondFloor, schedErr)
		fail(FieldConversionOption, schedErr)
		fail(FieldRevisionOption, schedErr)
		fail(FieldCallLoss, schedErr)
		fail(FieldFairValue, schedErr)
		fail(FieldMispricing, schedErr)
		b.Completeness = Partial
		return b
	}

	solver := e.params.Solver
	solver.RiskFreeRate = e.params.RiskFreeRate

	if err := deadline(ctx); err != nil {
		fail(FieldYTM, err)
	} else if ytm, err := bond.SolveYTM(sched, quote.BondPrice, quote.Date, solver); err != nil {
		fail(FieldYTM, err)
	} else {
		b.YTM = ytm
	}

	floorOK := false
	if e.curve == nil {
		fail(FieldBondFloor, fmt.Errorf("%w: no curve configured", curve.ErrMissingCurveRate))
	} else if floor, err := e.curve.BondFloor(terms, quote.Date); err != nil {
		fail(FieldBondFloor, err)
	} else {
		b.BondFloor = floor
		floorOK = true
	}

	optOK := e.priceOptions(ctx, &b, in, fail)

	if floorOK && optOK {
		b.FairValue = b.BondFloor + b.ConversionOption + b.RevisionOption - b.CallLoss
		b.Mispricing = quote.BondPrice - b.FairValue
	} else {
		err := fmt.Errorf("fair value inputs unavailable")
		b.Failures = append(b.Failures,
			FieldFailure{Field: FieldFairValue, Reason: upstreamReason(&b), Detail: err.Error()},
			FieldFailure{Field: FieldMispricing, Reason: upstreamReason(&b), Detail: err.Error()},
		)
	}

	if len(b.Failures) == 0 {
		b.Completeness = Complete
	} else {
		b.Completeness = Partial
		if e.logger != nil {
			e.logger.Debug().
				Str("code", b.Code).
				Int("failed_fields", len(b.Failures)).
				Msg("partial indicator bundle")
		}
	}
	return b
}

// priceOptions fills the three option-side indicators. Returns true when
// conversion option and revision option computed; call loss may degrade to
// an approximate zero without blocking the fair value.
func (e *Engine) priceOptions(ctx context.Context, b *IndicatorBundle, in Input, fail func(string, error)) bool {
	terms, quote := in.Terms, in.Quote

	t := utils.Years(quote.Date, terms.MaturityDate)
	sigma := in.Volatility
	if sigma <= 0 {
		sigma = e.params.Volatility
	}
	r := e.params.RiskFreeRate

	if err := deadline(ctx); err != nil {
		fail(FieldConversionOption, err)
		fail(FieldRevisionOption, err)
		fail(FieldCallLoss, err)
		return false
	}

	conv, err := option.ConversionOption(terms.FaceValue, quote.StockPrice, terms.ConversionPrice, t, r, sigma)
	if err != nil {
		fail(FieldConversionOption, err)
		fail(FieldRevisionOption, err)
		fail(FieldCallLoss, err)
		return false
	}
	b.ConversionOption = conv

	rev, err := option.RevisionOption(terms.FaceValue, quote.StockPrice, terms.ConversionPrice, t, r, sigma,
		e.params.RevisionFraction, e.params.RevisionProbability)
	if err != nil {
		fail(FieldRevisionOption, err)
		fail(FieldCallLoss, err)
		return false
	}
	b.RevisionOption = rev

	// Call loss needs the trigger rule and enough trading-day history to
	// evaluate it. Either gap degrades to loss 0 with the fair value
	// flagged approximate, per the holder-may-proceed policy.
	rule := terms.CallTrigger
	if !rule.Defined() {
		fail(FieldCallLoss, fmt.Errorf("%w: no call-trigger rule", option.ErrMissingTriggerData))
		b.Approximate = true
		return true
	}
	breached, err := option.TriggerBreached(in.StockCloses, terms.ConversionPrice*rule.Ratio, rule.Days, rule.Window)
	if err != nil {
		fail(FieldCallLoss, err)
		b.Approximate = true
		return true
	}

	var loss float64
	if breached {
		// Forced conversion is imminent: the holder stands to lose the
		// option's entire remaining time value.
		loss, err = option.TimeValue(terms.FaceValue, quote.StockPrice, terms.ConversionPrice, t, r, sigma)
	} else {
		loss, err = option.CallLoss(terms.FaceValue, quote.StockPrice, terms.ConversionPrice, t, r, sigma, rule.Ratio)
	}
	if err != nil {
		fail(FieldCallLoss, err)
		b.Approximate = true
		return true
	}
	b.CallLoss = loss
	return true
}

// upstreamReason picks the reason of the first upstream failure so the
// aggregate fields report why they are missing.
func upstreamReason(b *IndicatorBundle) string {
	if len(b.Failures) > 0 {
		return b.Failures[len(b.Failures)-1].Reason
	}
	return ReasonInvalidInput
}

// deadline maps an expired context onto the solver non-convergence path.
func deadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", bond.ErrNoConvergence, err)
	}
	return nil
}
