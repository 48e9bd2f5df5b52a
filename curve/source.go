package curve

import "context"

// Source supplies the read-only credit curve. Implementations must be safe
// for concurrent use; the engine shares one curve across all bonds.
type Source interface {
	Curve(ctx context.Context) (*CreditCurve, error)
}

// StaticSource is a map-backed Source for development and testing.
type StaticSource struct {
	curve *CreditCurve
}

func NewStaticSource(quotes map[string]map[string]float64) *StaticSource {
	return &StaticSource{curve: NewCreditCurve(quotes)}
}

func (s *StaticSource) Curve(ctx context.Context) (*CreditCurve, error) {
	return s.curve, nil
}

// defaultSpreads holds CN credit spreads over the risk-free rate by rating,
// flat across tenors. Values follow exchange credit-bond pricing practice.
var defaultSpreads = map[string]float64{
	"AAA": 0.005,
	"AA+": 0.010,
	"AA":  0.015,
	"AA-": 0.020,
	"A+":  0.030,
	"A":   0.040,
	"A-":  0.050,
	"BBB": 0.070,
}

// DefaultCurve builds a flat-by-tenor credit curve at riskFree plus a
// rating-dependent spread, on 1Y..6Y nodes (the convertible tenor range).
func DefaultCurve(riskFree float64) *CreditCurve {
	tenors := []string{"1Y", "2Y", "3Y", "4Y", "5Y", "6Y"}
	quotes := make(map[string]map[string]float64, len(defaultSpreads))
	for rating, spread := range defaultSpreads {
		byTenor := make(map[string]float64, len(tenors))
		for _, tenor := range tenors {
			byTenor[tenor] = riskFree + spread
		}
		quotes[rating] = byTenor
	}
	return NewCreditCurve(quotes)
}
