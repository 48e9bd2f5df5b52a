package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/cblib/utils"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start  time.Time
		months int
		want   time.Time
	}{
		{d(2024, 1, 15), 1, d(2024, 2, 15)},
		{d(2024, 1, 31), 1, d(2024, 2, 29)}, // clamps to month end
		{d(2023, 1, 31), 1, d(2023, 2, 28)},
		{d(2024, 3, 31), -1, d(2024, 2, 29)},
		{d(2024, 2, 29), 12, d(2025, 2, 28)},
		{d(2021, 3, 15), 72, d(2027, 3, 15)},
		{d(2027, 3, 15), -72, d(2021, 3, 15)},
	}
	for _, tc := range cases {
		got := utils.AddMonth(tc.start, tc.months)
		require.True(t, got.Equal(tc.want),
			"AddMonth(%s, %d) = %s, want %s",
			tc.start.Format("2006-01-02"), tc.months,
			got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
	}
}

func TestYears(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 1.0, utils.Years(d(2023, 1, 1), d(2024, 1, 1)), 1e-9)
	require.InDelta(t, 366.0/365.0, utils.Years(d(2024, 1, 1), d(2025, 1, 1)), 1e-9)
	require.InDelta(t, -1.0, utils.Years(d(2024, 1, 1), d(2023, 1, 1)), 1e-9)
}

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start, end := d(2024, 1, 1), d(2024, 7, 1)

	require.InDelta(t, 182.0/365.0, utils.YearFraction(start, end, "ACT/365F"), 1e-9)
	require.InDelta(t, 182.0/360.0, utils.YearFraction(start, end, "ACT/360"), 1e-9)
	require.InDelta(t, 0.5, utils.YearFraction(start, end, "30E/360"), 1e-9)
	// Unknown conventions fall back to ACT/365F.
	require.InDelta(t, 182.0/365.0, utils.YearFraction(start, end, "ACT/ACT"), 1e-9)
}

func TestDateParse(t *testing.T) {
	t.Parallel()

	got, err := utils.DateParse("2024-06-14")
	require.NoError(t, err)
	require.True(t, got.Equal(d(2024, 6, 14)))

	_, err = utils.DateParse("14/06/2024")
	require.Error(t, err)
}
