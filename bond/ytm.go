package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/cblib/utils"
)

// SolverConfig holds the yield solver's bracket and tolerances as an
// explicit value. Callers pass it in; there is no process-wide state.
type SolverConfig struct {
	// PriceTolerance is the convergence criterion on |PV - price|.
	PriceTolerance float64
	// MaxIterations caps the bisection/Newton loop per bracket.
	MaxIterations int
	// BracketLow and BracketHigh bound the feasible annualized rate.
	BracketLow  float64
	BracketHigh float64
	// GridSteps is the number of subintervals scanned for sign changes
	// when the PV profile is not monotonic.
	GridSteps int
	// RiskFreeRate seeds the multiple-root tie-break: when more than one
	// rate reprices the schedule, the root nearest this rate wins.
	RiskFreeRate float64
}

// DefaultSolverConfig provides production-ready values: price tolerance
// 1e-6, rate bracket -99%..+1000%.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		PriceTolerance: 1e-6,
		MaxIterations:  200,
		BracketLow:     -0.99,
		BracketHigh:    10.0,
		GridSteps:      100,
		RiskFreeRate:   0.025,
	}
}

// PV discounts the schedule at the annualized rate y with annual
// compounding on an ACT/365F time axis from obs.
func PV(sched Schedule, y float64, obs time.Time) float64 {
	pv, _ := pvAndDeriv(sched, y, obs)
	return pv
}

// SolveYTM finds the annualized rate equating the schedule's present value
// to price within cfg.PriceTolerance.
//
// The solver brackets each root by scanning the rate interval for sign
// changes, then refines with Newton steps kept inside a maintained
// bisection bracket. With several roots (non-monotonic PV for pathological
// schedules) the root nearest cfg.RiskFreeRate is returned. ErrNoConvergence
// is returned when no bracket contains the price or iterations run out.
func SolveYTM(sched Schedule, price float64, obs time.Time, cfg SolverConfig) (float64, error) {
	if len(sched) == 0 {
		return 0, fmt.Errorf("%w: empty schedule", ErrNoConvergence)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: price %.4f not positive", ErrNoConvergence, price)
	}

	f := func(y float64) float64 { return PV(sched, y, obs) - price }

	steps := cfg.GridSteps
	if steps < 2 {
		steps = 2
	}
	width := (cfg.BracketHigh - cfg.BracketLow) / float64(steps)

	var roots []float64
	prevY := cfg.BracketLow
	prevF := f(prevY)
	for i := 1; i <= steps; i++ {
		y := cfg.BracketLow + float64(i)*width
		fy := f(y)
		if prevF == 0 {
			roots = append(roots, prevY)
		} else if prevF*fy < 0 {
			root, err := refine(sched, obs, price, prevY, y, prevF, cfg)
			if err == nil {
				roots = append(roots, root)
			}
		}
		prevY, prevF = y, fy
	}
	if prevF == 0 {
		roots = append(roots, prevY)
	}

	if len(roots) == 0 {
		return 0, fmt.Errorf("%w: price %.4f outside PV range over [%.2f, %.2f]",
			ErrNoConvergence, price, cfg.BracketLow, cfg.BracketHigh)
	}

	best := roots[0]
	for _, r := range roots[1:] {
		if math.Abs(r-cfg.RiskFreeRate) < math.Abs(best-cfg.RiskFreeRate) {
			best = r
		}
	}
	return best, nil
}

// refine runs Newton iteration on [lo, hi], falling back to bisection when a
// step leaves the bracket or the derivative is too small.
func refine(sched Schedule, obs time.Time, price, lo, hi, flo float64, cfg SolverConfig) (float64, error) {
	y := 0.5 * (lo + hi)
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		pv, dPdy := pvAndDeriv(sched, y, obs)
		fy := pv - price

		if math.Abs(fy) < cfg.PriceTolerance {
			return y, nil
		}

		// Shrink the bracket.
		if (fy < 0) == (flo < 0) {
			lo = y
			flo = fy
		} else {
			hi = y
		}

		next := y - fy/dPdy
		if math.Abs(dPdy) < 1e-15 || next <= lo || next >= hi || math.IsNaN(next) {
			next = 0.5 * (lo + hi)
		}
		y = next
	}
	return y, fmt.Errorf("%w: %d iterations exhausted", ErrNoConvergence, cfg.MaxIterations)
}

// pvAndDeriv returns (PV, dPV/dy) at rate y.
//
//	t_k   = ACT/365F year fraction from obs to the k-th payment
//	PV    = Σ CF_k / (1+y)^t_k
//	dPV/dy = Σ −t_k · CF_k / (1+y)^(t_k+1)
func pvAndDeriv(sched Schedule, y float64, obs time.Time) (float64, float64) {
	var pv, deriv float64
	for _, cf := range sched {
		t := utils.YearFraction(obs, cf.Date, "ACT/365F")
		amt := cf.Amount()
		disc := math.Pow(1.0+y, t)
		pv += amt / disc
		deriv += -t * amt / math.Pow(1.0+y, t+1)
	}
	return pv, deriv
}
