package marketdata

import "math"

// tradingDaysPerYear annualizes daily log returns on the CN exchange count.
const tradingDaysPerYear = 244

// RealizedVolatility estimates annualized volatility as the standard
// deviation of daily log returns over the trailing window. Returns 0 when
// fewer than three closes are available; callers fall back to their
// configured default volatility.
func RealizedVolatility(closes []float64, window int) float64 {
	if window > 0 && len(closes) > window+1 {
		closes = closes[len(closes)-window-1:]
	}
	if len(closes) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
