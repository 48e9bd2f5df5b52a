package bond

import "time"

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in currency units per bond (e.g., CNY for a 100-face
// convertible), not price-per-100.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Schedule is an ordered cash-flow schedule. Dates are strictly increasing
// and all strictly after the observation date the schedule was built for.
type Schedule []Cashflow

// Maturity returns the date of the last cash flow.
func (s Schedule) Maturity() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// TriggerRule is a "price condition for N of M trading days" covenant clause.
// Ratio is relative to the conversion price: 1.30 means 130% for a call
// trigger, 0.70 means 70% for a put trigger.
type TriggerRule struct {
	Ratio  float64
	Days   int
	Window int
}

// Defined reports whether the rule carries enough data to be evaluated.
func (r TriggerRule) Defined() bool {
	return r.Ratio > 0 && r.Days > 0 && r.Window >= r.Days
}

// BondTerms holds the covenant terms of a convertible bond. Loaded once per
// bond and never mutated.
type BondTerms struct {
	Code string
	Name string

	FaceValue float64
	// CouponRates holds the annual coupon rate for each bond year as a
	// decimal fraction (year 1 first). CN convertibles typically step up,
	// e.g. 0.004, 0.006, 0.010, 0.015, 0.020, 0.025.
	CouponRates []float64

	IssueDate    time.Time
	MaturityDate time.Time
	// RedemptionPrice is the principal repaid at maturity per bond, often
	// above face for CN convertibles. Zero means redeem at face.
	RedemptionPrice float64

	ConversionPrice float64
	// ConversionStart is the first date the bond may be converted.
	ConversionStart time.Time

	CallTrigger TriggerRule
	PutTrigger  TriggerRule
	// PutDates are the dates on which the holder may resell the bond to
	// the issuer, ascending.
	PutDates []time.Time
	// PutPrice is the resale price per bond (principal plus put premium).
	PutPrice float64

	Rating string
}

// MarketQuote is an immutable per-run market snapshot for one bond.
type MarketQuote struct {
	BondPrice  float64
	StockPrice float64
	Date       time.Time
	// Volume is the traded amount on the observation date, in the data
	// source's unit (ten-thousand CNY for East Money).
	Volume float64
}

// ConversionValue returns face / conversion price × stock price, the value
// of the shares one bond converts into. Returns 0 when the conversion price
// is not positive.
func (t BondTerms) ConversionValue(stockPrice float64) float64 {
	if t.ConversionPrice <= 0 {
		return 0
	}
	return t.FaceValue / t.ConversionPrice * stockPrice
}

// NearestPutDate returns the first put date strictly after obs, if any.
func (t BondTerms) NearestPutDate(obs time.Time) (time.Time, bool) {
	for _, d := range t.PutDates {
		if d.After(obs) {
			return d, true
		}
	}
	return time.Time{}, false
}
