package bond

import "errors"

var (
	// ErrInvalidTerms reports malformed covenant data. The bond's schedule
	// cannot be built and schedule-derived indicators are unavailable.
	ErrInvalidTerms = errors.New("bond: invalid terms")

	// ErrNoConvergence reports that the yield solver exhausted its
	// iteration budget or the price lies outside the achievable PV range.
	ErrNoConvergence = errors.New("bond: yield solver did not converge")
)
