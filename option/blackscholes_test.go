package option_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/cblib/option"
)

func TestCallKnownValue(t *testing.T) {
	t.Parallel()

	// Hull-style reference point: S=42, K=40, r=10%, sigma=20%, T=0.5.
	got, err := option.Call(42, 40, 0.5, 0.10, 0.20)
	require.NoError(t, err)
	require.InDelta(t, 4.7594, got, 1e-3)
}

func TestPutCallParity(t *testing.T) {
	t.Parallel()

	s, k, tt, r, sigma := 11.80, 12.50, 2.75, 0.025, 0.35

	call, err := option.Call(s, k, tt, r, sigma)
	require.NoError(t, err)
	put, err := option.Put(s, k, tt, r, sigma)
	require.NoError(t, err)

	// C - P = S - K·e^(-rT)
	require.InDelta(t, s-k*math.Exp(-r*tt), call-put, 1e-9)
}

func TestCallMonotoneInVolAndTime(t *testing.T) {
	t.Parallel()

	prev := 0.0
	for _, sigma := range []float64{0.10, 0.20, 0.35, 0.60} {
		v, err := option.Call(11.80, 12.50, 2.0, 0.025, sigma)
		require.NoError(t, err)
		require.Greater(t, v, prev, "sigma=%.2f", sigma)
		prev = v
	}

	prev = 0.0
	for _, tt := range []float64{0.25, 1.0, 2.0, 5.0} {
		v, err := option.Call(11.80, 12.50, tt, 0.025, 0.35)
		require.NoError(t, err)
		require.Greater(t, v, prev, "T=%.2f", tt)
		prev = v
	}
}

func TestCallLimits(t *testing.T) {
	t.Parallel()

	// Expired option is pure intrinsic.
	v, err := option.Call(25, 20, 0, 0.025, 0.35)
	require.NoError(t, err)
	require.InDelta(t, 5.0, v, 1e-12)

	v, err = option.Call(15, 20, -1, 0.025, 0.35)
	require.NoError(t, err)
	require.Zero(t, v)

	// Vanishing volatility approaches the discounted intrinsic value.
	v, err = option.Call(25, 20, 1, 0.025, 1e-9)
	require.NoError(t, err)
	require.InDelta(t, 25-20*math.Exp(-0.025), v, 1e-6)
}

func TestCallInvalidInputs(t *testing.T) {
	t.Parallel()

	_, err := option.Call(0, 20, 1, 0.025, 0.35)
	require.True(t, errors.Is(err, option.ErrInvalidInput))

	_, err = option.Call(25, 0, 1, 0.025, 0.35)
	require.True(t, errors.Is(err, option.ErrInvalidInput))

	_, err = option.Call(25, 20, 1, 0.025, 0)
	require.True(t, errors.Is(err, option.ErrInvalidVolatility))

	_, err = option.Call(25, 20, 1, 0.025, -0.2)
	require.True(t, errors.Is(err, option.ErrInvalidVolatility))
}
