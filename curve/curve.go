// Package curve provides the credit-adjusted discounting model: a read-only
// credit curve keyed by rating and tenor, and the bond-floor computation
// built on it.
package curve

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrMissingCurveRate reports a rating/tenor pair with no curve entry.
var ErrMissingCurveRate = errors.New("curve: missing rate for rating/tenor")

// node is a single curve point: tenor in years and annualized rate.
type node struct {
	tenor float64
	rate  float64
}

// CreditCurve maps credit rating × tenor to an annualized discount rate.
// Rates between nodes are linearly interpolated on the tenor axis; tenors
// outside the node range take the nearest boundary rate. The curve is
// immutable after construction and safe for concurrent readers.
type CreditCurve struct {
	nodes map[string][]node
}

// NewCreditCurve builds a curve from rating → tenor string → rate, where
// tenor strings follow the "1W"/"3M"/"10Y" convention.
func NewCreditCurve(quotes map[string]map[string]float64) *CreditCurve {
	c := &CreditCurve{nodes: make(map[string][]node, len(quotes))}
	for rating, byTenor := range quotes {
		ns := make([]node, 0, len(byTenor))
		for tenor, rate := range byTenor {
			ns = append(ns, node{tenor: TenorToYears(tenor), rate: rate})
		}
		sort.Slice(ns, func(i, j int) bool { return ns[i].tenor < ns[j].tenor })
		c.nodes[normalizeRating(rating)] = ns
	}
	return c
}

// Rate returns the discount rate for a rating at a tenor in years.
func (c *CreditCurve) Rate(rating string, tenorYears float64) (float64, error) {
	ns, ok := c.nodes[normalizeRating(rating)]
	if !ok || len(ns) == 0 {
		return 0, fmt.Errorf("%w: rating %q", ErrMissingCurveRate, rating)
	}
	if tenorYears <= ns[0].tenor {
		return ns[0].rate, nil
	}
	last := ns[len(ns)-1]
	if tenorYears >= last.tenor {
		return last.rate, nil
	}
	i := sort.Search(len(ns), func(i int) bool { return ns[i].tenor >= tenorYears })
	lo, hi := ns[i-1], ns[i]
	w := (tenorYears - lo.tenor) / (hi.tenor - lo.tenor)
	return lo.rate + w*(hi.rate-lo.rate), nil
}

// Ratings lists the ratings the curve has nodes for, sorted.
func (c *CreditCurve) Ratings() []string {
	out := make([]string, 0, len(c.nodes))
	for r := range c.nodes {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func normalizeRating(rating string) string {
	return strings.ToUpper(strings.TrimSpace(rating))
}

// TenorToYears converts tenor strings like "1W", "3M", "10Y" to year fractions.
func TenorToYears(tenor string) float64 {
	tenor = strings.TrimSpace(strings.ToUpper(tenor))
	if strings.HasSuffix(tenor, "W") {
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "W"))
		return float64(v) * 7.0 / 365.0
	}
	if strings.HasSuffix(tenor, "M") {
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "M"))
		return float64(v) / 12.0
	}
	if strings.HasSuffix(tenor, "Y") {
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "Y"))
		return float64(v)
	}
	if strings.HasSuffix(tenor, "D") {
		v, _ := strconv.Atoi(strings.TrimSuffix(tenor, "D"))
		return float64(v) / 365.0
	}
	// default attempt parse as years
	if v, err := strconv.ParseFloat(tenor, 64); err == nil {
		return v
	}
	return 0
}
