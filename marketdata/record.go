// Package marketdata defines the input boundary of the engine: per-bond
// records as delivered by a data provider, validated and converted into
// covenant terms and market quotes. Quote fields arrive as decimals and are
// only narrowed to float64 at the engine boundary.
package marketdata

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/meenmo/cblib/bond"
	"github.com/meenmo/cblib/utils"
)

// defaultCouponLadder is the typical CN convertible step-up coupon
// structure, applied when the provider carries no coupon schedule.
var defaultCouponLadder = []float64{0.004, 0.006, 0.010, 0.015, 0.020, 0.025}

// BondRecord is one bond as fetched from the provider.
type BondRecord struct {
	Code      string `validate:"required"`
	Name      string `validate:"required"`
	StockCode string
	StockName string

	Price           decimal.Decimal
	StockPrice      decimal.Decimal
	ConversionPrice decimal.Decimal

	FaceValue       decimal.Decimal
	CouponRates     []float64
	IssueDate       time.Time
	MaturityDate    time.Time `validate:"required"`
	RedemptionPrice decimal.Decimal
	PutPrice        decimal.Decimal
	PutDates        []time.Time

	CallTrigger bond.TriggerRule
	PutTrigger  bond.TriggerRule

	Rating string
	// Outstanding is the remaining issue size in hundred-million CNY.
	Outstanding decimal.Decimal
	// Volume is the observation-day traded amount in ten-thousand CNY.
	Volume decimal.Decimal
	// RedeemStatus carries the provider's forced-redemption announcement
	// state, empty when none.
	RedeemStatus string

	ObservationDate time.Time
}

var validate = validator.New()

// Validate checks the record before conversion. Struct tags cover the
// identity fields; price sanity is checked explicitly because decimals are
// structs the tag engine cannot see through.
func (r BondRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("marketdata: record %s: %w", r.Code, err)
	}
	if r.Price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("marketdata: record %s: price %s not positive", r.Code, r.Price)
	}
	if r.ConversionPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("marketdata: record %s: conversion price %s not positive", r.Code, r.ConversionPrice)
	}
	return nil
}

// ApplyCovenantDefaults fills the covenant fields most quote feeds omit:
// the step-up coupon ladder, trigger rules at the given ratios (N=15 of
// M=30 for the call, 30 of 30 for the put), the put window over the last
// two bond years, and a face of 100.
func (r *BondRecord) ApplyCovenantDefaults(callRatio, putRatio float64) {
	if r.FaceValue.IsZero() {
		r.FaceValue = decimal.NewFromInt(100)
	}
	if len(r.CouponRates) == 0 {
		r.CouponRates = append([]float64(nil), defaultCouponLadder...)
	}
	if !r.CallTrigger.Defined() && callRatio > 1 {
		r.CallTrigger = bond.TriggerRule{Ratio: callRatio, Days: 15, Window: 30}
	}
	if !r.PutTrigger.Defined() && putRatio > 0 {
		r.PutTrigger = bond.TriggerRule{Ratio: putRatio, Days: 30, Window: 30}
	}
	if len(r.PutDates) == 0 && !r.MaturityDate.IsZero() {
		// Resale is typically open in the final two bond years.
		r.PutDates = []time.Time{utils.AddMonth(r.MaturityDate, -24)}
	}
	if r.PutPrice.IsZero() {
		r.PutPrice = decimal.NewFromInt(103)
	}
}

// Terms converts the record into immutable covenant terms.
func (r BondRecord) Terms() bond.BondTerms {
	return bond.BondTerms{
		Code:            r.Code,
		Name:            r.Name,
		FaceValue:       r.FaceValue.InexactFloat64(),
		CouponRates:     r.CouponRates,
		IssueDate:       r.IssueDate,
		MaturityDate:    r.MaturityDate,
		RedemptionPrice: r.RedemptionPrice.InexactFloat64(),
		ConversionPrice: r.ConversionPrice.InexactFloat64(),
		CallTrigger:     r.CallTrigger,
		PutTrigger:      r.PutTrigger,
		PutDates:        r.PutDates,
		PutPrice:        r.PutPrice.InexactFloat64(),
		Rating:          r.Rating,
	}
}

// Quote converts the record's market snapshot.
func (r BondRecord) Quote() bond.MarketQuote {
	return bond.MarketQuote{
		BondPrice:  r.Price.InexactFloat64(),
		StockPrice: r.StockPrice.InexactFloat64(),
		Date:       r.ObservationDate,
		Volume:     r.Volume.InexactFloat64(),
	}
}
