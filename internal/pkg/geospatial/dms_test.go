package geospatial

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDMS(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{"4°36'56.78''", 4 + 36.0/60 + 56.78/3600},
		{"0°0'0''", 0},
		{"-74°5'0.00''", -(74 + 5.0/60)},
		{"-0°30'0.00''", -0.5},
		{"179°59'59.99''", 179 + 59.0/60 + 59.99/3600},
		{"12°7'3.5''", 12 + 7.0/60 + 3.5/3600},
		// Lenient: out-of-range minutes still parse.
		{"4°75'0''", 4 + 75.0/60},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDMS(tc.in)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestParseDMSKnownValue(t *testing.T) {
	got, err := ParseDMS("4°36'56.78''")
	require.NoError(t, err)
	require.InDelta(t, 4.6157722, got, 1e-7)
}

func TestParseDMSFormatError(t *testing.T) {
	for _, in := range []string{
		"",
		"4-36-56",
		"4°36'56.789''",
		"4°36'56.78'",
		"4°36\"56.78''",
		"+4°36'56.78''",
		"4°-36'56.78''",
		"1234°0'0''",
		"4°123'0''",
		" 4°36'56.78''",
		"4°36'56.78'' ",
		"4.5°36'56''",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDMS(in)
			require.Error(t, err)
			require.True(t, IsFormatError(err))
			require.Equal(t, "invalid DMS format, expected gg°mm'ss.ss''", err.Error())
		})
	}
}

func TestParseDMSStrict(t *testing.T) {
	got, err := ParseDMSStrict("4°36'56.78''")
	require.NoError(t, err)
	require.InDelta(t, 4.6157722, got, 1e-7)

	for _, in := range []string{"4°75'0''", "4°0'60''", "4°0'99.99''", "4°60'0''"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDMSStrict(in)
			require.Error(t, err)
			require.True(t, IsFormatError(err))
			require.Contains(t, err.Error(), "out of range")
		})
	}

	_, err = ParseDMSStrict("not dms")
	require.True(t, IsFormatError(err))
}

func TestIsValidDMS(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"4°36'56.78''", true},
		{"4-36-56", false},
		{"4°36'56.789''", false},
		{"-74°5'0''", true},
		{"74°5'0.1''", true},
		{"74°5'0.''", false},
		{"", false},
		{"°'''", false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, IsValidDMS(tc.in), tc.in)
	}
}

func TestFormatDMS(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{4.615772, "4°36'56.78''"},
		{0, "0°0'0.00''"},
		{-74.083333333, "-74°5'0.00''"},
		{-0.5, "-0°30'0.00''"},
		{1.5, "1°30'0.00''"},
		// 59.9999s rounds up and carries through minutes into degrees.
		{4 + 59.0/60 + 59.9999/3600, "5°0'0.00''"},
		{10 + 59.9999/3600, "10°1'0.00''"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			got, err := FormatDMS(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.True(t, IsValidDMS(got))
		})
	}
}

func TestFormatDMSDomainError(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FormatDMS(v)
		require.Error(t, err)
		require.True(t, IsDomainError(err))
		require.False(t, IsFormatError(err))
	}
}

func TestFormatDMSHugeMagnitude(t *testing.T) {
	got, err := FormatDMS(1e19)
	require.NoError(t, err)
	require.Equal(t, "10000000000000000000°0'0.00''", got)

	got, err = FormatDMS(-1e19)
	require.NoError(t, err)
	require.Equal(t, "-10000000000000000000°0'0.00''", got)
}

func TestFormatDMSSign(t *testing.T) {
	for _, x := range []float64{0.0001, 0.5, 4.615772, 74.08, 179.99} {
		neg, err := FormatDMS(-x)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(neg, "-"), neg)

		pos, err := FormatDMS(x)
		require.NoError(t, err)
		require.False(t, strings.HasPrefix(pos, "-"), pos)
	}
}

func TestDMSRoundTrip(t *testing.T) {
	for d := -179.9; d < 180; d += 0.7331 {
		s, err := FormatDMS(d)
		require.NoError(t, err)

		back, err := ParseDMS(s)
		require.NoError(t, err)
		require.InDelta(t, d, back, 1e-4, "round trip of %v via %s", d, s)

		// Output of the formatter is always within strict ranges.
		_, err = ParseDMSStrict(s)
		require.NoError(t, err, s)
	}
}
