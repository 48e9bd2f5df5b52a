package main

import (
	"context"
	"fmt"
	"time"

	"github.com/meenmo/cblib/bond"
	"github.com/meenmo/cblib/curve"
	"github.com/meenmo/cblib/valuation"
)

func main() {
	terms := bond.BondTerms{
		Code:            "113050",
		Name:            "Sample Convertible",
		FaceValue:       100,
		CouponRates:     []float64{0.004, 0.006, 0.010, 0.015, 0.020, 0.025},
		IssueDate:       time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate:    time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
		RedemptionPrice: 108,
		ConversionPrice: 12.50,
		CallTrigger:     bond.TriggerRule{Ratio: 1.30, Days: 15, Window: 30},
		PutTrigger:      bond.TriggerRule{Ratio: 0.70, Days: 30, Window: 30},
		PutDates:        []time.Time{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		PutPrice:        103,
		Rating:          "AA",
	}
	quote := bond.MarketQuote{
		BondPrice:  118.40,
		StockPrice: 11.80,
		Date:       time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
	}

	engine := valuation.New(curve.DefaultCurve(0.025), valuation.Params{
		RiskFreeRate:        0.025,
		Volatility:          0.35,
		RevisionFraction:    0.10,
		RevisionProbability: 0.80,
	})

	b := engine.Value(context.Background(), valuation.Input{Terms: terms, Quote: quote})

	fmt.Printf("Conversion value:  %.4f\n", b.ConversionValue)
	fmt.Printf("Premium rate:      %.4f%%\n", b.PremiumRate*100)
	fmt.Printf("YTM:               %.4f%%\n", b.YTM*100)
	fmt.Printf("Bond floor:        %.4f\n", b.BondFloor)
	fmt.Printf("Conversion option: %.4f\n", b.ConversionOption)
	fmt.Printf("Revision option:   %.4f\n", b.RevisionOption)
	fmt.Printf("Call loss:         %.4f\n", b.CallLoss)
	fmt.Printf("Fair value:        %.4f\n", b.FairValue)
	fmt.Printf("Mispricing:        %.4f\n", b.Mispricing)
	fmt.Printf("Completeness:      %s\n", b.Completeness)
}
