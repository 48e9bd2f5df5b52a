package strategy

import (
	"math"
	"sort"
)

// PercentileRank returns the rank of v within xs as a fraction in [0, 1]:
// the share of observations at or below v. Empty input returns 0.
func PercentileRank(xs []float64, v float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	n := 0
	for _, x := range xs {
		if x <= v {
			n++
		}
	}
	return float64(n) / float64(len(xs))
}

// NormalizeMinMax maps xs onto [0, 1]. A constant series maps to 0.5.
func NormalizeMinMax(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	out := make([]float64, len(xs))
	if hi == lo {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, x := range xs {
		out[i] = (x - lo) / (hi - lo)
	}
	return out
}

// NormalizeZScore standardizes xs to zero mean and unit variance. A
// constant series maps to zeros.
func NormalizeZScore(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	sd := math.Sqrt(variance)

	out := make([]float64, len(xs))
	if sd == 0 {
		return out
	}
	for i, x := range xs {
		out[i] = (x - mean) / sd
	}
	return out
}

// sortByScoreDesc orders rows by score, code as tiebreak for a stable
// report layout.
func sortByScoreDesc(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Code < rows[j].Code
	})
}

func topN(rows []Row, n int) []Row {
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
