package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundUpToQuarter(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{0.01, 0.25},
		{0.25, 0.25},
		{0.26, 0.5},
		{10.50, 10.50},
		{10.51, 10.75},
		{12.76, 13.00},
		{3.125, 3.25},
	}
	for _, c := range cases {
		require.InDelta(t, c.want, RoundUpToQuarter(c.in), 1e-9, "RoundUpToQuarter(%v)", c.in)
	}
}

func TestPreTaxCeilingProperties(t *testing.T) {
	costs := []float64{0, 0.01, 1, 9.99, 10.40, 17.6, 25.55, 100}
	markups := []float64{0, 0.1, 0.25, 0.3, 0.5, 1}
	for _, cost := range costs {
		for _, markup := range markups {
			got := PreTax(cost, markup)
			raw := cost * (1 + markup)
			require.GreaterOrEqual(t, got, raw-1e-9, "PreTax(%v, %v) below raw", cost, markup)
			cents := math.Mod(math.Round(got*100), 25)
			require.InDelta(t, 0, cents, 1e-9, "PreTax(%v, %v)=%v not a quarter", cost, markup, got)
		}
	}
}

func TestWithTax(t *testing.T) {
	for _, pre := range []float64{0, 0.25, 10.50, 13.00, 22.75} {
		got := WithTax(pre, DefaultTaxRate)
		require.GreaterOrEqual(t, got, pre)
		cents := math.Mod(math.Round(got*100), 25)
		require.InDelta(t, 0, cents, 1e-9, "WithTax(%v)=%v not a quarter", pre, got)
	}
	// 10.50 * 1.055 = 11.0775 → 11.25
	require.InDelta(t, 11.25, WithTax(10.50, DefaultTaxRate), 1e-9)
}

func TestPreTaxKnownValues(t *testing.T) {
	// 10.40 * 1.25 = 13.00 exactly, stays 13.00
	require.InDelta(t, 13.00, PreTax(10.40, 0.25), 1e-9)
	// 10.00 * 1.25 = 12.50, already a quarter
	require.InDelta(t, 12.50, PreTax(10.00, 0.25), 1e-9)
	// 10.01 * 1.25 = 12.5125 → 12.75
	require.InDelta(t, 12.75, PreTax(10.01, 0.25), 1e-9)
}
