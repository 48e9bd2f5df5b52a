package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/cblib/calendar"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestIsTradingDay(t *testing.T) {
	t.Parallel()

	require.True(t, calendar.IsTradingDay(calendar.CHN, d(2025, 3, 14)))  // Friday
	require.False(t, calendar.IsTradingDay(calendar.CHN, d(2025, 3, 15))) // Saturday
	require.False(t, calendar.IsTradingDay(calendar.CHN, d(2025, 3, 16))) // Sunday
	require.False(t, calendar.IsTradingDay(calendar.CHN, d(2025, 1, 1)))  // New Year's Day
	require.False(t, calendar.IsTradingDay(calendar.CHN, d(2025, 10, 1))) // National Day
}

func TestAddTradingDays(t *testing.T) {
	t.Parallel()

	// Friday + 1 trading day skips the weekend.
	require.Equal(t, d(2025, 3, 17), calendar.AddTradingDays(calendar.CHN, d(2025, 3, 14), 1))
	// Monday - 1 trading day walks back to Friday.
	require.Equal(t, d(2025, 3, 14), calendar.AddTradingDays(calendar.CHN, d(2025, 3, 17), -1))
	require.Equal(t, d(2025, 3, 14), calendar.AddTradingDays(calendar.CHN, d(2025, 3, 14), 0))
}

func TestCountTradingDays(t *testing.T) {
	t.Parallel()

	// Full business week, no holidays.
	require.Equal(t, 5, calendar.CountTradingDays(calendar.CHN, d(2025, 3, 14), d(2025, 3, 21)))
	require.Equal(t, 0, calendar.CountTradingDays(calendar.CHN, d(2025, 3, 21), d(2025, 3, 14)))
}
