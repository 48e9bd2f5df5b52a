package strategy

import (
	"github.com/meenmo/cblib/config"
	"github.com/meenmo/cblib/utils"
)

// Stage is one screening step. Stages are composed into a pipeline at
// build time; a disabled filter is simply not part of the pipeline.
type Stage interface {
	Apply(rows []Row) []Row
}

// BasicCriteria screens on price band, premium, YTM, liquidity and issue
// size. Zero thresholds disable the corresponding check.
type BasicCriteria struct {
	Selection config.Selection
}

func (f BasicCriteria) Apply(rows []Row) []Row {
	sel := f.Selection
	out := rows[:0:0]
	for _, r := range rows {
		if sel.MinPrice > 0 && r.Price < sel.MinPrice {
			continue
		}
		if sel.MaxPrice > 0 && r.Price > sel.MaxPrice {
			continue
		}
		if sel.MaxPremiumRate > 0 && r.PremiumRate > sel.MaxPremiumRate {
			continue
		}
		if sel.MinYTM != 0 && r.HasYTM && r.YTM < sel.MinYTM {
			continue
		}
		if sel.MinDailyVolume > 0 && r.Volume < sel.MinDailyVolume {
			continue
		}
		if sel.MinOutstanding > 0 && r.Outstanding > 0 && r.Outstanding < sel.MinOutstanding {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RiskFilter removes bonds with ST underlyings, an active forced-redemption
// announcement, or a rating below the configured grade.
type RiskFilter struct {
	ExcludeST               bool
	ExcludeForcedRedemption bool
	MinRating               string
}

func (f RiskFilter) Apply(rows []Row) []Row {
	out := rows[:0:0]
	for _, r := range rows {
		if f.ExcludeST && isST(r.StockName) {
			continue
		}
		if f.ExcludeForcedRedemption && r.RedeemStatus != "" {
			continue
		}
		if f.MinRating != "" && !utils.RatingAtLeast(r.Rating, f.MinRating) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Pipeline applies stages in order.
type Pipeline []Stage

func (p Pipeline) Apply(rows []Row) []Row {
	for _, s := range p {
		rows = s.Apply(rows)
	}
	return rows
}

// BuildPipeline assembles the screening pipeline from configuration.
// Risk screening appears only when at least one of its checks is on.
func BuildPipeline(cfg config.Config) Pipeline {
	p := Pipeline{BasicCriteria{Selection: cfg.Selection}}
	if cfg.Selection.FilterST || cfg.Selection.FilterForcedRedemption || cfg.Selection.MinRating != "" {
		p = append(p, RiskFilter{
			ExcludeST:               cfg.Selection.FilterST,
			ExcludeForcedRedemption: cfg.Selection.FilterForcedRedemption,
			MinRating:               cfg.Selection.MinRating,
		})
	}
	return p
}
