package option

import (
	"fmt"
	"math"
)

// UpAndOutCall prices a European call that is knocked out if the underlying
// trades at or above the barrier b before expiry. Standard reflection
// closed form (zero rebate): uo = vanilla − up-and-in.
//
// Spot at or above the barrier means the option is already out; a barrier
// at or below the strike leaves no payoff path that survives, so both
// return 0.
func UpAndOutCall(s, k, b, t, r, sigma float64) (float64, error) {
	if s <= 0 || k <= 0 {
		return 0, fmt.Errorf("%w: S=%.4f K=%.4f", ErrInvalidInput, s, k)
	}
	if b <= 0 {
		return 0, fmt.Errorf("%w: barrier=%.4f", ErrInvalidInput, b)
	}
	if s >= b || b <= k {
		return 0, nil
	}
	if t <= 0 {
		return math.Max(s-k, 0), nil
	}
	if sigma <= 0 {
		return 0, fmt.Errorf("%w: sigma=%.4f", ErrInvalidVolatility, sigma)
	}

	vanilla, err := Call(s, k, t, r, sigma)
	if err != nil {
		return 0, err
	}

	v := sigma * math.Sqrt(t)
	lambda := (r + 0.5*sigma*sigma) / (sigma * sigma)
	disc := math.Exp(-r * t)

	x1 := math.Log(s/b)/v + lambda*v
	y := math.Log(b*b/(s*k))/v + lambda*v
	y1 := math.Log(b/s)/v + lambda*v

	pow := math.Pow(b/s, 2*lambda)

	upIn := s*normCDF(x1) - k*disc*normCDF(x1-v) -
		s*pow*(normCDF(-y)-normCDF(-y1)) +
		k*disc*math.Pow(b/s, 2*lambda-2)*(normCDF(-y+v)-normCDF(-y1+v))

	out := vanilla - upIn
	if out < 0 {
		out = 0
	}
	if out > vanilla {
		out = vanilla
	}
	return out, nil
}
