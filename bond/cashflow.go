package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/cblib/utils"
)

// MaturitySchedule builds the cash-flow schedule from obs to maturity:
// every remaining coupon, and principal at maturity.
//
// Coupons fall on issue-date anniversaries. The redemption payment replaces
// the final year's plain coupon when RedemptionPrice is set (CN convertibles
// quote a redemption price that already includes the last coupon).
func MaturitySchedule(terms BondTerms, obs time.Time) (Schedule, error) {
	if err := validateTerms(terms, obs); err != nil {
		return nil, err
	}

	var sched Schedule
	years := len(terms.CouponRates)
	issue := couponAnchor(terms)
	for year := 1; year <= years; year++ {
		date := utils.AddMonth(issue, 12*year)
		if !date.After(obs) {
			continue
		}
		if !date.Before(terms.MaturityDate) {
			break
		}
		sched = append(sched, Cashflow{
			Date:   date,
			Coupon: terms.FaceValue * terms.CouponRates[year-1],
		})
	}

	principal := terms.RedemptionPrice
	lastCoupon := 0.0
	if principal <= 0 {
		principal = terms.FaceValue
		lastCoupon = terms.FaceValue * terms.CouponRates[years-1]
	}
	sched = append(sched, Cashflow{
		Date:      terms.MaturityDate,
		Coupon:    lastCoupon,
		Principal: principal,
	})

	return sched, nil
}

// PutSchedule builds the truncated schedule ending at the nearest future put
// date: coupons before that date, then the put price (principal plus put
// premium) at the put date. The second return is false when no put date
// remains before maturity.
func PutSchedule(terms BondTerms, obs time.Time) (Schedule, bool, error) {
	if err := validateTerms(terms, obs); err != nil {
		return nil, false, err
	}

	putDate, ok := terms.NearestPutDate(obs)
	if !ok || !putDate.Before(terms.MaturityDate) {
		return nil, false, nil
	}

	var sched Schedule
	issue := couponAnchor(terms)
	for year := 1; year <= len(terms.CouponRates); year++ {
		date := utils.AddMonth(issue, 12*year)
		if !date.After(obs) {
			continue
		}
		if !date.Before(putDate) {
			break
		}
		sched = append(sched, Cashflow{
			Date:   date,
			Coupon: terms.FaceValue * terms.CouponRates[year-1],
		})
	}

	putPrice := terms.PutPrice
	if putPrice <= 0 {
		putPrice = terms.FaceValue
	}
	sched = append(sched, Cashflow{Date: putDate, Principal: putPrice})

	return sched, true, nil
}

// couponAnchor returns the date coupon anniversaries are counted from.
// Records missing the issue date fall back to maturity minus the bond's
// tenor, which lands anniversaries on the same calendar day.
func couponAnchor(terms BondTerms) time.Time {
	if !terms.IssueDate.IsZero() {
		return terms.IssueDate
	}
	return utils.AddMonth(terms.MaturityDate, -12*len(terms.CouponRates))
}

func validateTerms(terms BondTerms, obs time.Time) error {
	if terms.FaceValue <= 0 {
		return fmt.Errorf("%w: face value %.2f", ErrInvalidTerms, terms.FaceValue)
	}
	if len(terms.CouponRates) == 0 {
		return fmt.Errorf("%w: empty coupon schedule", ErrInvalidTerms)
	}
	for i, r := range terms.CouponRates {
		if r < 0 {
			return fmt.Errorf("%w: negative coupon rate %.4f in year %d", ErrInvalidTerms, r, i+1)
		}
	}
	if terms.MaturityDate.IsZero() || !terms.MaturityDate.After(obs) {
		return fmt.Errorf("%w: maturity %s not after observation %s",
			ErrInvalidTerms,
			terms.MaturityDate.Format("2006-01-02"), obs.Format("2006-01-02"))
	}
	if !terms.IssueDate.IsZero() && !terms.IssueDate.Before(terms.MaturityDate) {
		return fmt.Errorf("%w: issue date on or after maturity", ErrInvalidTerms)
	}
	return nil
}
