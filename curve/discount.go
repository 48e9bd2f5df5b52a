package curve

import (
	"math"
	"time"

	"github.com/meenmo/cblib/bond"
	"github.com/meenmo/cblib/utils"
)

// DiscountSchedule computes the present value of a cash-flow schedule at the
// curve's credit-adjusted rates, each payment discounted at the rate for its
// own tenor with annual compounding.
func (c *CreditCurve) DiscountSchedule(sched bond.Schedule, rating string, obs time.Time) (float64, error) {
	var pv float64
	for _, cf := range sched {
		t := utils.YearFraction(obs, cf.Date, "ACT/365F")
		rate, err := c.Rate(rating, t)
		if err != nil {
			return 0, err
		}
		pv += cf.Amount() / math.Pow(1.0+rate, t)
	}
	return pv, nil
}

// BondFloor returns the credit-discounted floor: the larger of the schedule
// discounted to maturity and, when a put date precedes maturity, the
// truncated schedule discounted to that put date. A rational holder takes
// the more valuable redemption path.
func (c *CreditCurve) BondFloor(terms bond.BondTerms, obs time.Time) (float64, error) {
	sched, err := bond.MaturitySchedule(terms, obs)
	if err != nil {
		return 0, err
	}
	floor, err := c.DiscountSchedule(sched, terms.Rating, obs)
	if err != nil {
		return 0, err
	}

	putSched, ok, err := bond.PutSchedule(terms, obs)
	if err != nil {
		return 0, err
	}
	if ok {
		putPV, err := c.DiscountSchedule(putSched, terms.Rating, obs)
		if err != nil {
			return 0, err
		}
		if putPV > floor {
			floor = putPV
		}
	}
	return floor, nil
}
