// Package strategy screens and ranks valued convertibles. Every strategy
// consumes the same cross-sectional row table and returns a scored,
// descending selection; which filter stages run is decided when the
// pipeline is assembled, not by flags checked per row.
package strategy

import (
	"strings"

	"github.com/meenmo/cblib/marketdata"
	"github.com/meenmo/cblib/utils"
	"github.com/meenmo/cblib/valuation"
)

// Row is one bond in the cross-section. Rates are percentages here (the
// valuation layer reports decimal fractions); DoubleLow is
// price + premium% × coefficient.
type Row struct {
	Code      string
	Name      string
	StockName string
	Rating    string

	Price           float64
	StockPrice      float64
	ConversionValue float64
	PremiumRate     float64
	YTM             float64
	DoubleLow       float64

	BondFloor  float64
	FairValue  float64
	Mispricing float64

	Volume          float64
	Outstanding     float64
	YearsToMaturity float64
	RedeemStatus    string

	Complete bool
	HasYTM   bool
	// HasFairValue reports that the fair-value decomposition computed,
	// possibly with call loss approximated to zero (Approximate set).
	HasFairValue bool
	Approximate  bool

	Score float64
}

// BuildRows joins fetched records with their valuation bundles into the
// strategy cross-section. Records and bundles must be index-aligned, as
// produced by Engine.ValueBatch.
func BuildRows(records []marketdata.BondRecord, bundles []valuation.IndicatorBundle, doubleLowCoefficient float64) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		if i >= len(bundles) {
			break
		}
		b := bundles[i]
		row := Row{
			Code:            rec.Code,
			Name:            rec.Name,
			StockName:       rec.StockName,
			Rating:          rec.Rating,
			Price:           rec.Price.InexactFloat64(),
			StockPrice:      rec.StockPrice.InexactFloat64(),
			ConversionValue: b.ConversionValue,
			PremiumRate:     b.PremiumRate * 100,
			YTM:             b.YTM * 100,
			BondFloor:       b.BondFloor,
			FairValue:       b.FairValue,
			Mispricing:      b.Mispricing,
			Volume:          rec.Volume.InexactFloat64(),
			Outstanding:     rec.Outstanding.InexactFloat64(),
			RedeemStatus:    rec.RedeemStatus,
			Complete:        b.Completeness == valuation.Complete,
			HasYTM:          b.Has(valuation.FieldYTM),
			HasFairValue:    b.Has(valuation.FieldFairValue),
			Approximate:     b.Approximate,
		}
		if !rec.MaturityDate.IsZero() && !rec.ObservationDate.IsZero() {
			row.YearsToMaturity = utils.Years(rec.ObservationDate, rec.MaturityDate)
		}
		row.DoubleLow = row.Price + row.PremiumRate*doubleLowCoefficient
		rows = append(rows, row)
	}
	return rows
}

// isST reports whether the underlying stock carries a special-treatment
// designation.
func isST(stockName string) bool {
	return strings.Contains(strings.ToUpper(stockName), "ST")
}
