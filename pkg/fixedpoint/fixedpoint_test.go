package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimal_Canonical(t *testing.T) {
	v, ok := FromDecimal("25.381")
	require.True(t, ok)
	assert.Equal(t, int64(2_538_100_000), v)
}

func TestFromDecimal_Valid(t *testing.T) {
	cases := map[string]int64{
		"0":           0,
		"1":           Scale,
		"25":          25 * Scale,
		"-25.381":     -2_538_100_000,
		"+3.5":        350_000_000,
		"0.00000001":  1,
		"-0.00000001": -1,
		"12345.67891": 1_234_567_891_000,

		// Both int64 extremes parse; the negative range carries one extra value.
		"92233720368.54775807":  math.MaxInt64,
		"-92233720368.54775808": math.MinInt64,
	}
	for in, want := range cases {
		v, ok := FromDecimal(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, v, "input %q", in)
	}
}

func TestFromDecimal_Malformed(t *testing.T) {
	for _, in := range []string{
		"", ".", "-", "+", "1.", ".5", "1..2", "1.2.3",
		"abc", "1a", "1.2b", "1,5",
		"0.000000001",           // ninth fractional digit
		"99999999999999999999",  // integer overflow
		"92233720368.54775808",  // one past MaxInt64
		"-92233720368.54775809", // one past MinInt64
	} {
		_, ok := FromDecimal(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestToDecimal_Canonical(t *testing.T) {
	assert.Equal(t, "25.381", ToDecimal(2_538_100_000))
}

func TestToDecimal_Formatting(t *testing.T) {
	cases := map[int64]string{
		0:              "0",
		Scale:          "1",
		-Scale:         "-1",
		1:              "0.00000001",
		-1:             "-0.00000001",
		250_000_000:    "2.5",
		25 * Scale:     "25",
		math.MinInt64:  "-92233720368.54775808",
		math.MaxInt64:  "92233720368.54775807",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToDecimal(in), "input %d", in)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 2_538_100_000, math.MaxInt64, math.MinInt64} {
		got, ok := FromDecimal(ToDecimal(v))
		require.True(t, ok, "value %d", v)
		assert.Equal(t, v, got, "value %d", v)
	}
	for _, s := range []string{"0", "25.381", "-0.5", "92233720368.54775807"} {
		v, ok := FromDecimal(s)
		require.True(t, ok, "input %q", s)
		assert.Equal(t, s, ToDecimal(v), "input %q", s)
	}
}
