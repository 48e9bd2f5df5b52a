package strategy

import (
	"fmt"

	"github.com/meenmo/cblib/config"
)

// Kind identifies a selection strategy. Dispatch goes through the
// registry; callers never branch on strategy names.
type Kind int

const (
	DoubleLow Kind = iota
	LowPremium
	HighYTM
	Composite
	ValueHunting
	Undervalued
	SmallCapPremium
	NearMaturity
	HolderRetention
	TwoYearWindow
	RevisionPlay
)

var kindNames = map[Kind]string{
	DoubleLow:       "double_low",
	LowPremium:      "low_premium",
	HighYTM:         "high_ytm",
	Composite:       "composite",
	ValueHunting:    "value_hunting",
	Undervalued:     "undervalued",
	SmallCapPremium: "small_cap_premium",
	NearMaturity:    "near_maturity",
	HolderRetention: "holder_retention",
	TwoYearWindow:   "two_year_window",
	RevisionPlay:    "revision_play",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Title is the human-readable strategy name used in reports.
func (k Kind) Title() string {
	switch k {
	case DoubleLow:
		return "Double Low"
	case LowPremium:
		return "Low Premium"
	case HighYTM:
		return "High YTM"
	case Composite:
		return "Composite Score"
	case ValueHunting:
		return "Value Hunting"
	case Undervalued:
		return "Undervalued"
	case SmallCapPremium:
		return "Small Cap High Premium"
	case NearMaturity:
		return "Defensive Near Maturity"
	case HolderRetention:
		return "Holder Retention"
	case TwoYearWindow:
		return "Two-Year Window"
	case RevisionPlay:
		return "Revision Play"
	}
	return k.String()
}

// ParseKind resolves a strategy name from configuration or the CLI.
func ParseKind(name string) (Kind, error) {
	for k, s := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("strategy: unknown kind %q", name)
}

// Kinds lists all registered strategies in evaluation order.
func Kinds() []Kind {
	return []Kind{
		DoubleLow, LowPremium, HighYTM, Composite, ValueHunting, Undervalued,
		SmallCapPremium, NearMaturity, HolderRetention, TwoYearWindow, RevisionPlay,
	}
}

// Select runs the strategy over an already-screened cross-section and
// returns at most cfg.Selection.TopN rows, best first, with Score set.
// The input slice is not modified.
func (k Kind) Select(rows []Row, cfg config.Config) ([]Row, error) {
	scored, err := k.score(rows, cfg)
	if err != nil {
		return nil, err
	}
	sortByScoreDesc(scored)
	return topN(scored, cfg.Selection.TopN), nil
}

func (k Kind) score(rows []Row, cfg config.Config) ([]Row, error) {
	switch k {
	case DoubleLow:
		return scoreNegated(rows, func(r Row) float64 { return r.DoubleLow }), nil
	case LowPremium:
		return scoreNegated(rows, func(r Row) float64 { return r.PremiumRate }), nil
	case HighYTM:
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if !r.HasYTM {
				continue
			}
			r.Score = r.YTM
			out = append(out, r)
		}
		return out, nil
	case Composite:
		return scoreComposite(rows, cfg.Weights), nil
	case ValueHunting:
		// Bonds trading at or beneath their credit floor, ranked by the
		// floor discount.
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.BondFloor <= 0 || r.Price > r.BondFloor*1.05 {
				continue
			}
			r.Score = (r.BondFloor - r.Price) / r.Price * 100
			out = append(out, r)
		}
		return out, nil
	case Undervalued:
		// Needs the decomposition to have priced: an approximate fair
		// value (call loss treated as zero) overstates fair, so a
		// negative mispricing still marks the bond cheap.
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if !r.HasFairValue || r.Mispricing >= 0 {
				continue
			}
			r.Score = -r.Mispricing
			out = append(out, r)
		}
		return out, nil
	case SmallCapPremium:
		// Small remaining size, high premium, price near the redemption
		// floor: a strike-cut candidate. Smallest issues first.
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.Outstanding <= 0 || r.Outstanding > smallCapMaxOutstanding {
				continue
			}
			if r.PremiumRate < smallCapMinPremium {
				continue
			}
			if r.Price < smallCapMinPrice || r.Price > smallCapMaxPrice {
				continue
			}
			r.Score = -r.Outstanding
			out = append(out, r)
		}
		return out, nil
	case NearMaturity:
		// Final-year bonds near their redemption value with little option
		// value left. Shortest remaining life first.
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.YearsToMaturity <= 0 || r.YearsToMaturity > nearMaturityMaxYears {
				continue
			}
			if r.Price > nearMaturityMaxPrice || r.PremiumRate > nearMaturityMaxPremium {
				continue
			}
			r.Score = -r.YearsToMaturity
			out = append(out, r)
		}
		return out, nil
	case HolderRetention:
		// Mid-life bonds whose remaining size stays large, a proxy for
		// major holders not having sold down. Largest remnant first.
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.Outstanding < retentionMinOutstanding {
				continue
			}
			if r.YearsToMaturity < retentionMinYears || r.YearsToMaturity > retentionMaxYears {
				continue
			}
			r.Score = r.Outstanding
			out = append(out, r)
		}
		return out, nil
	case TwoYearWindow:
		// Around two years to run the issuer starts pushing conversion.
		// Ranked by double-low within the window.
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.YearsToMaturity < windowMinYears || r.YearsToMaturity > windowMaxYears {
				continue
			}
			if r.Price > windowMaxPrice {
				continue
			}
			r.Score = -r.DoubleLow
			out = append(out, r)
		}
		return out, nil
	case RevisionPlay:
		// Short remaining life plus a high premium: the issuer is under
		// pressure to cut the strike. Nearest maturity first.
		out := make([]Row, 0, len(rows))
		for _, r := range rows {
			if r.YearsToMaturity <= 0 || r.YearsToMaturity >= revisionMaxYears {
				continue
			}
			if r.PremiumRate < revisionMinPremium {
				continue
			}
			r.Score = -r.YearsToMaturity
			out = append(out, r)
		}
		return out, nil
	}
	return nil, fmt.Errorf("strategy: unknown kind %d", int(k))
}

// Screening thresholds for the sub-strategies above. Prices in CNY,
// premiums in percent, outstanding in hundred-million CNY, years ACT/365F.
const (
	smallCapMaxOutstanding = 3.0
	smallCapMinPremium     = 20.0
	smallCapMinPrice       = 100.0
	smallCapMaxPrice       = 115.0

	nearMaturityMaxYears   = 1.0
	nearMaturityMaxPrice   = 105.0
	nearMaturityMaxPremium = 30.0

	retentionMinOutstanding = 2.0
	retentionMinYears       = 1.0
	retentionMaxYears       = 4.0

	windowMinYears = 1.5
	windowMaxYears = 2.5
	windowMaxPrice = 130.0

	revisionMaxYears   = 2.0
	revisionMinPremium = 30.0
)

func scoreNegated(rows []Row, f func(Row) float64) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		r.Score = -f(r)
		out[i] = r
	}
	return out
}

// scoreComposite blends min-max normalized factors: lower premium and
// lower double-low score higher, higher YTM and conversion value score
// higher.
func scoreComposite(rows []Row, w config.Weights) []Row {
	if len(rows) == 0 {
		return nil
	}
	premium := make([]float64, len(rows))
	ytm := make([]float64, len(rows))
	dlow := make([]float64, len(rows))
	cv := make([]float64, len(rows))
	for i, r := range rows {
		premium[i] = r.PremiumRate
		ytm[i] = r.YTM
		dlow[i] = r.DoubleLow
		cv[i] = r.ConversionValue
	}
	premium = NormalizeMinMax(premium)
	ytm = NormalizeMinMax(ytm)
	dlow = NormalizeMinMax(dlow)
	cv = NormalizeMinMax(cv)

	out := make([]Row, len(rows))
	for i, r := range rows {
		r.Score = (1-premium[i])*w.PremiumRate +
			ytm[i]*w.YTM +
			(1-dlow[i])*w.DoubleLow +
			cv[i]*w.ConversionValue
		out[i] = r
	}
	return out
}
