package eastmoney

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchComparison(t *testing.T) {
	t.Parallel()

	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "b:MK0354", r.URL.Query().Get("fs"))
		w.Write([]byte(quoteFixture))
	}))
	defer quotes.Close()

	redeem := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rows":[{"id":"113050","cell":{"bond_id":"113050","maturity_dt":"2027-03-15","rating_cd":"AA"}}]}`))
	}))
	defer redeem.Close()

	c := NewClient(
		WithBaseURL(quotes.URL),
		WithRedeemURL(redeem.URL),
		WithRetries(0, time.Millisecond),
	)

	records, err := c.FetchComparison(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "113050", records[0].Code)
	require.Equal(t, "AA", records[0].Rating)
	require.Equal(t, time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC), records[0].MaturityDate)

	// The second record had no redemption row; maturity stays unset.
	require.True(t, records[1].MaturityDate.IsZero())
}

func TestFetchComparisonRetries(t *testing.T) {
	t.Parallel()

	attempts := 0
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(quoteFixture))
	}))
	defer quotes.Close()

	redeem := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rows":[]}`))
	}))
	defer redeem.Close()

	c := NewClient(
		WithBaseURL(quotes.URL),
		WithRedeemURL(redeem.URL),
		WithRetries(3, time.Millisecond),
	)

	records, err := c.FetchComparison(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 3, attempts)
}

func TestFetchComparisonExhaustsRetries(t *testing.T) {
	t.Parallel()

	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer quotes.Close()

	c := NewClient(
		WithBaseURL(quotes.URL),
		WithRetries(1, time.Millisecond),
	)

	_, err := c.FetchComparison(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 2 attempts")
}
