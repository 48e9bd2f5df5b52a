package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/cblib/config"
	"github.com/meenmo/cblib/strategy"
)

func testRows() []strategy.Row {
	return []strategy.Row{
		{Code: "A", Name: "Alpha", Price: 105, PremiumRate: 5, YTM: 2.0, DoubleLow: 110, ConversionValue: 100, Volume: 500, Outstanding: 5, Complete: true, HasYTM: true},
		{Code: "B", Name: "Beta", Price: 118, PremiumRate: 25, YTM: -1.0, DoubleLow: 143, ConversionValue: 94, Volume: 800, Outstanding: 8, Complete: true, HasYTM: true},
		{Code: "C", Name: "Gamma", Price: 95, PremiumRate: 2, YTM: 3.5, DoubleLow: 97, ConversionValue: 93, Volume: 300, Outstanding: 3, Complete: true, HasYTM: true},
		{Code: "D", Name: "Delta", Price: 130, PremiumRate: 45, YTM: -4.0, DoubleLow: 175, ConversionValue: 90, Volume: 200, Outstanding: 2, Complete: true, HasYTM: true},
	}
}

func TestDoubleLowOrdering(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	got, err := strategy.DoubleLow.Select(testRows(), cfg)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Lowest double-low value first.
	require.Equal(t, "C", got[0].Code)
	require.Equal(t, "A", got[1].Code)
	require.Equal(t, "B", got[2].Code)
	require.Equal(t, "D", got[3].Code)
}

func TestHighYTMSkipsMissingYields(t *testing.T) {
	t.Parallel()

	rows := testRows()
	rows[2].HasYTM = false // drops the best yield

	got, err := strategy.HighYTM.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "A", got[0].Code)
}

func TestTopNLimit(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Selection.TopN = 2
	got, err := strategy.LowPremium.Select(testRows(), cfg)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "C", got[0].Code)
	require.Equal(t, "A", got[1].Code)
}

func TestCompositeFavorsCheapHighYield(t *testing.T) {
	t.Parallel()

	got, err := strategy.Composite.Select(testRows(), config.Default())
	require.NoError(t, err)
	require.Len(t, got, 4)
	// C dominates on premium, YTM and double-low.
	require.Equal(t, "C", got[0].Code)
	require.Equal(t, "D", got[3].Code)
	require.Greater(t, got[0].Score, got[1].Score)
}

func TestValueHuntingNeedsFloorDiscount(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "A", Price: 95, BondFloor: 98, Complete: true},  // below floor
		{Code: "B", Price: 110, BondFloor: 96, Complete: true}, // far above floor
		{Code: "C", Price: 97, BondFloor: 0, Complete: true},   // no floor
	}
	got, err := strategy.ValueHunting.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "A", got[0].Code)
	require.Greater(t, got[0].Score, 0.0)
}

func TestUndervaluedNeedsFairValue(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "A", Price: 100, Mispricing: -8, Complete: true, HasFairValue: true},
		{Code: "B", Price: 100, Mispricing: -3, HasFairValue: false}, // no decomposition, excluded
		{Code: "C", Price: 100, Mispricing: 4, Complete: true, HasFairValue: true}, // rich, excluded
		// Call loss approximated to zero still yields a usable fair value.
		{Code: "D", Price: 100, Mispricing: -5, HasFairValue: true, Approximate: true},
	}
	got, err := strategy.Undervalued.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Code)
	require.Equal(t, "D", got[1].Code)
	require.InDelta(t, 8.0, got[0].Score, 1e-12)
}

func TestSmallCapPremiumScreens(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "A", Price: 108, PremiumRate: 35, Outstanding: 2.5},
		{Code: "B", Price: 108, PremiumRate: 35, Outstanding: 1.0},
		{Code: "big", Price: 108, PremiumRate: 35, Outstanding: 8.0},
		{Code: "cheapprem", Price: 108, PremiumRate: 10, Outstanding: 1.0},
		{Code: "rich", Price: 125, PremiumRate: 35, Outstanding: 1.0},
		{Code: "nosize", Price: 108, PremiumRate: 35, Outstanding: 0},
	}
	got, err := strategy.SmallCapPremium.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Smallest remaining size first.
	require.Equal(t, "B", got[0].Code)
	require.Equal(t, "A", got[1].Code)
}

func TestNearMaturityScreens(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "A", Price: 102, PremiumRate: 12, YearsToMaturity: 0.8},
		{Code: "B", Price: 101, PremiumRate: 5, YearsToMaturity: 0.3},
		{Code: "far", Price: 101, PremiumRate: 5, YearsToMaturity: 2.5},
		{Code: "rich", Price: 112, PremiumRate: 5, YearsToMaturity: 0.5},
		{Code: "premium", Price: 101, PremiumRate: 45, YearsToMaturity: 0.5},
		{Code: "matured", Price: 101, PremiumRate: 5, YearsToMaturity: 0},
	}
	got, err := strategy.NearMaturity.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Shortest remaining life first.
	require.Equal(t, "B", got[0].Code)
	require.Equal(t, "A", got[1].Code)
}

func TestHolderRetentionScreens(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "A", Outstanding: 6, YearsToMaturity: 2.0},
		{Code: "B", Outstanding: 3, YearsToMaturity: 3.5},
		{Code: "small", Outstanding: 1, YearsToMaturity: 2.0},
		{Code: "late", Outstanding: 6, YearsToMaturity: 0.5},
		{Code: "early", Outstanding: 6, YearsToMaturity: 5.0},
	}
	got, err := strategy.HolderRetention.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Largest remnant first.
	require.Equal(t, "A", got[0].Code)
	require.Equal(t, "B", got[1].Code)
}

func TestTwoYearWindowScreens(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "A", Price: 115, DoubleLow: 140, YearsToMaturity: 2.0},
		{Code: "B", Price: 110, DoubleLow: 118, YearsToMaturity: 1.8},
		{Code: "early", Price: 110, DoubleLow: 118, YearsToMaturity: 4.0},
		{Code: "late", Price: 110, DoubleLow: 118, YearsToMaturity: 0.9},
		{Code: "rich", Price: 140, DoubleLow: 150, YearsToMaturity: 2.0},
	}
	got, err := strategy.TwoYearWindow.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Lowest double-low first.
	require.Equal(t, "B", got[0].Code)
	require.Equal(t, "A", got[1].Code)
}

func TestRevisionPlayScreens(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "A", PremiumRate: 40, YearsToMaturity: 1.6},
		{Code: "B", PremiumRate: 55, YearsToMaturity: 0.9},
		{Code: "cheap", PremiumRate: 15, YearsToMaturity: 1.0},
		{Code: "long", PremiumRate: 40, YearsToMaturity: 3.0},
		{Code: "matured", PremiumRate: 40, YearsToMaturity: 0},
	}
	got, err := strategy.RevisionPlay.Select(rows, config.Default())
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Nearest maturity first.
	require.Equal(t, "B", got[0].Code)
	require.Equal(t, "A", got[1].Code)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range strategy.Kinds() {
		got, err := strategy.ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}
	_, err := strategy.ParseKind("momentum")
	require.Error(t, err)
}

func TestBasicCriteriaScreens(t *testing.T) {
	t.Parallel()

	cfg := config.Default() // price 90..150, premium ≤ 50, ytm ≥ -10, volume ≥ 100, size ≥ 0.5
	rows := []strategy.Row{
		{Code: "keep", Price: 105, PremiumRate: 10, YTM: 1, Volume: 500, Outstanding: 5, HasYTM: true},
		{Code: "cheap", Price: 85, PremiumRate: 10, YTM: 1, Volume: 500, Outstanding: 5, HasYTM: true},
		{Code: "rich", Price: 160, PremiumRate: 10, YTM: 1, Volume: 500, Outstanding: 5, HasYTM: true},
		{Code: "premium", Price: 105, PremiumRate: 60, YTM: 1, Volume: 500, Outstanding: 5, HasYTM: true},
		{Code: "yield", Price: 105, PremiumRate: 10, YTM: -15, Volume: 500, Outstanding: 5, HasYTM: true},
		{Code: "illiquid", Price: 105, PremiumRate: 10, YTM: 1, Volume: 10, Outstanding: 5, HasYTM: true},
		{Code: "tiny", Price: 105, PremiumRate: 10, YTM: 1, Volume: 500, Outstanding: 0.2, HasYTM: true},
	}
	got := strategy.BasicCriteria{Selection: cfg.Selection}.Apply(rows)
	require.Len(t, got, 1)
	require.Equal(t, "keep", got[0].Code)
}

func TestBasicCriteriaZeroThresholdsPassAll(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "premium", Price: 105, PremiumRate: 80, YTM: 1, HasYTM: true},
		{Code: "yield", Price: 105, PremiumRate: 10, YTM: -20, HasYTM: true},
		{Code: "illiquid", Price: 105, PremiumRate: 10, YTM: 1, Volume: 0, HasYTM: true},
	}
	got := strategy.BasicCriteria{Selection: config.Selection{}}.Apply(rows)
	require.Len(t, got, len(rows))
}

func TestRiskFilter(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "ok", StockName: "Normal Co"},
		{Code: "st", StockName: "*ST Trouble"},
		{Code: "redeem", StockName: "Fine Co", RedeemStatus: "X"},
	}

	got := strategy.RiskFilter{ExcludeST: true, ExcludeForcedRedemption: true}.Apply(rows)
	require.Len(t, got, 1)
	require.Equal(t, "ok", got[0].Code)

	// With neither check enabled the stage passes everything through.
	got = strategy.RiskFilter{}.Apply(rows)
	require.Len(t, got, 3)
}

func TestRiskFilterMinRating(t *testing.T) {
	t.Parallel()

	rows := []strategy.Row{
		{Code: "aaa", Rating: "AAA"},
		{Code: "aa", Rating: "AA"},
		{Code: "a", Rating: "A"},
		{Code: "none", Rating: ""},
	}
	got := strategy.RiskFilter{MinRating: "AA"}.Apply(rows)
	require.Len(t, got, 2)
	require.Equal(t, "aaa", got[0].Code)
	require.Equal(t, "aa", got[1].Code)
}

func TestBuildPipelineOmitsRiskStage(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Selection.FilterST = false
	cfg.Selection.FilterForcedRedemption = false

	rows := []strategy.Row{
		{Code: "st", StockName: "*ST Trouble", Price: 105, PremiumRate: 10, YTM: 1, Volume: 500, Outstanding: 5, HasYTM: true},
	}
	got := strategy.BuildPipeline(cfg).Apply(rows)
	require.Len(t, got, 1)
}

func TestPercentileRank(t *testing.T) {
	t.Parallel()

	xs := []float64{1, 2, 3, 4, 5}
	require.InDelta(t, 0.2, strategy.PercentileRank(xs, 1), 1e-12)
	require.InDelta(t, 0.6, strategy.PercentileRank(xs, 3), 1e-12)
	require.InDelta(t, 1.0, strategy.PercentileRank(xs, 10), 1e-12)
	require.Zero(t, strategy.PercentileRank(nil, 3))
}

func TestNormalizeMinMax(t *testing.T) {
	t.Parallel()

	got := strategy.NormalizeMinMax([]float64{10, 20, 30})
	require.InDelta(t, 0.0, got[0], 1e-12)
	require.InDelta(t, 0.5, got[1], 1e-12)
	require.InDelta(t, 1.0, got[2], 1e-12)

	flat := strategy.NormalizeMinMax([]float64{7, 7, 7})
	for _, v := range flat {
		require.InDelta(t, 0.5, v, 1e-12)
	}
}

func TestNormalizeZScore(t *testing.T) {
	t.Parallel()

	got := strategy.NormalizeZScore([]float64{1, 2, 3})
	var sum float64
	for _, v := range got {
		sum += v
	}
	require.InDelta(t, 0, sum, 1e-9)
	require.Less(t, got[0], got[2])

	flat := strategy.NormalizeZScore([]float64{4, 4})
	require.Equal(t, []float64{0, 0}, flat)
}
