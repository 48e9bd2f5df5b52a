// Package option prices the embedded options of a convertible bond: the
// plain conversion option (Black-Scholes), the downward-revision adjustment,
// and the call-trigger barrier conditioning.
package option

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidVolatility reports a non-positive volatility input.
	ErrInvalidVolatility = errors.New("option: volatility must be positive")

	// ErrInvalidInput reports a non-positive spot or strike.
	ErrInvalidInput = errors.New("option: spot and strike must be positive")

	// ErrMissingTriggerData reports that the call-trigger condition cannot
	// be evaluated (no trading-day price history).
	ErrMissingTriggerData = errors.New("option: missing call-trigger history")
)

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2.0*math.Pi)
}

// Call prices a European call on a log-normal underlying with continuous
// compounding:
//
//	value = S·N(d1) − K·e^(−rT)·N(d2)
//	d1    = [ln(S/K) + (r + σ²/2)T] / (σ√T)
//	d2    = d1 − σ√T
//
// T ≤ 0 returns the intrinsic value max(S−K, 0) directly, bypassing the
// formula. σ ≤ 0 fails with ErrInvalidVolatility.
func Call(s, k, t, r, sigma float64) (float64, error) {
	if s <= 0 || k <= 0 {
		return 0, fmt.Errorf("%w: S=%.4f K=%.4f", ErrInvalidInput, s, k)
	}
	if t <= 0 {
		return math.Max(s-k, 0), nil
	}
	if sigma <= 0 {
		return 0, fmt.Errorf("%w: sigma=%.4f", ErrInvalidVolatility, sigma)
	}

	v := sigma * math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / v
	d2 := d1 - v
	value := s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
	return math.Max(value, 0), nil
}

// Put prices the matching European put, K·e^(−rT)·N(−d2) − S·N(−d1).
func Put(s, k, t, r, sigma float64) (float64, error) {
	if s <= 0 || k <= 0 {
		return 0, fmt.Errorf("%w: S=%.4f K=%.4f", ErrInvalidInput, s, k)
	}
	if t <= 0 {
		return math.Max(k-s, 0), nil
	}
	if sigma <= 0 {
		return 0, fmt.Errorf("%w: sigma=%.4f", ErrInvalidVolatility, sigma)
	}

	v := sigma * math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / v
	d2 := d1 - v
	value := k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
	return math.Max(value, 0), nil
}
