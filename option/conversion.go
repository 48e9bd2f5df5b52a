package option

import "fmt"

// ConversionOption prices the plain conversion option per bond: the
// Black-Scholes call on the underlying, scaled by the face/strike
// conversion ratio.
func ConversionOption(face, s, k, t, r, sigma float64) (float64, error) {
	if face <= 0 {
		return 0, fmt.Errorf("%w: face=%.4f", ErrInvalidInput, face)
	}
	perShare, err := Call(s, k, t, r, sigma)
	if err != nil {
		return 0, err
	}
	return perShare * face / k, nil
}

// RevisionOption approximates the value of a possible downward revision of
// the conversion price: the conversion option re-priced at the reduced
// strike K' = K·(1−fraction), minus the unrevised option, weighted by the
// estimated trigger probability. Fraction and probability are caller
// estimates; this component derives neither.
//
// A revised strike changes the conversion ratio too, so both legs are
// scaled at their own strike.
func RevisionOption(face, s, k, t, r, sigma, fraction, probability float64) (float64, error) {
	if fraction < 0 || fraction >= 1 {
		return 0, fmt.Errorf("%w: revision fraction=%.4f", ErrInvalidInput, fraction)
	}
	if probability < 0 || probability > 1 {
		return 0, fmt.Errorf("%w: revision probability=%.4f", ErrInvalidInput, probability)
	}
	if fraction == 0 || probability == 0 {
		return 0, nil
	}

	unrevised, err := ConversionOption(face, s, k, t, r, sigma)
	if err != nil {
		return 0, err
	}
	revised, err := ConversionOption(face, s, k*(1-fraction), t, r, sigma)
	if err != nil {
		return 0, err
	}

	gain := revised - unrevised
	if gain < 0 {
		gain = 0
	}
	return gain * probability, nil
}
