package option

import (
	"fmt"
	"math"
)

// CallLoss estimates the per-bond value the holder forfeits to the issuer's
// early-redemption right: the unconstrained conversion option minus the
// option conditioned on the stock never breaching the call-trigger barrier
// (triggerRatio × conversion price) before expiry.
func CallLoss(face, s, k, t, r, sigma, triggerRatio float64) (float64, error) {
	if triggerRatio <= 1 {
		return 0, fmt.Errorf("%w: call trigger ratio=%.4f", ErrInvalidInput, triggerRatio)
	}

	unconstrained, err := ConversionOption(face, s, k, t, r, sigma)
	if err != nil {
		return 0, err
	}
	constrainedPerShare, err := UpAndOutCall(s, k, k*triggerRatio, t, r, sigma)
	if err != nil {
		return 0, err
	}
	constrained := constrainedPerShare * face / k

	loss := unconstrained - constrained
	if loss < 0 {
		loss = 0
	}
	if loss > unconstrained {
		loss = unconstrained
	}
	return loss, nil
}

// TriggerBreached evaluates an "N of M trading days at or above level"
// condition over the most recent window of closing prices (oldest first).
// It fails with ErrMissingTriggerData when fewer than window observations
// are available.
func TriggerBreached(closes []float64, level float64, days, window int) (bool, error) {
	if days <= 0 || window < days {
		return false, fmt.Errorf("%w: days=%d window=%d", ErrMissingTriggerData, days, window)
	}
	if len(closes) < window {
		return false, fmt.Errorf("%w: %d closes, need %d", ErrMissingTriggerData, len(closes), window)
	}

	recent := closes[len(closes)-window:]
	count := 0
	for _, c := range recent {
		if c >= level {
			count++
		}
	}
	return count >= days, nil
}

// TimeValue returns the per-bond time value of the conversion option, the
// amount forfeited if conversion is forced immediately.
func TimeValue(face, s, k, t, r, sigma float64) (float64, error) {
	full, err := ConversionOption(face, s, k, t, r, sigma)
	if err != nil {
		return 0, err
	}
	intrinsic := math.Max(s-k, 0) * face / k
	tv := full - intrinsic
	if tv < 0 {
		tv = 0
	}
	return tv, nil
}
