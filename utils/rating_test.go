package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/cblib/utils"
)

func TestRatingRank(t *testing.T) {
	t.Parallel()

	require.Greater(t, utils.RatingRank("AAA"), utils.RatingRank("AA+"))
	require.Greater(t, utils.RatingRank("AA"), utils.RatingRank("A"))
	require.Equal(t, utils.RatingRank("aa+"), utils.RatingRank("AA+"))
	require.Zero(t, utils.RatingRank(""))
	require.Zero(t, utils.RatingRank("C"))
}

func TestRatingAtLeast(t *testing.T) {
	t.Parallel()

	require.True(t, utils.RatingAtLeast("AAA", "AA"))
	require.True(t, utils.RatingAtLeast("AA", "AA"))
	require.False(t, utils.RatingAtLeast("A", "AA"))
	require.False(t, utils.RatingAtLeast("", "AA"))
	require.False(t, utils.RatingAtLeast("AA", "unknown"))
}
