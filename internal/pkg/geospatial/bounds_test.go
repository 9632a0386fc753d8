package geospatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateWithinBounds(t *testing.T) {
	testCases := []struct {
		name    string
		lat     string
		lon     string
		want    BoundsResult
		wantErr bool
	}{
		{
			name: "bogota inside",
			lat:  "4°36'56.78''",
			lon:  "-74°5'0.00''",
			want: BoundsResult{Valid: true},
		},
		{
			name: "latitude far north",
			lat:  "40°0'0.00''",
			lon:  "74°0'0.00''",
			want: BoundsResult{Reason: ReasonLatitudeOutside},
		},
		{
			name: "longitude east of region",
			lat:  "4°0'0.00''",
			lon:  "74°0'0.00''",
			want: BoundsResult{Reason: ReasonLongitudeOutside},
		},
		{
			name: "just inside southern edge",
			lat:  "-4°13'47.00''",
			lon:  "-70°0'0.00''",
			want: BoundsResult{Valid: true},
		},
		{
			name:    "malformed latitude",
			lat:     "4-36-56",
			lon:     "-74°5'0.00''",
			wantErr: true,
		},
		{
			name:    "malformed longitude",
			lat:     "4°36'56.78''",
			lon:     "-74°5'0.001''",
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateWithinBounds(tc.lat, tc.lon, ColombiaBounds)
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, IsFormatError(err))
				require.Contains(t, err.Error(), "invalid DMS format")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValidateWithinBoundsErrorNamesArgument(t *testing.T) {
	_, err := ValidateWithinBounds("4°0'0''", "bad", ColombiaBounds)
	require.ErrorContains(t, err, "longitude: ")

	_, err = ValidateWithinBounds("bad", "bad", ColombiaBounds)
	require.ErrorContains(t, err, "latitude: ")
}

func TestValidateWithinBoundsOtherRegion(t *testing.T) {
	iberia := Bounds{LatMin: 36, LatMax: 43.8, LonMin: -9.5, LonMax: 3.3}
	res, err := ValidateWithinBounds("43°15'47.00''", "-2°56'6.00''", iberia)
	require.NoError(t, err)
	require.True(t, res.Valid)

	res, err = ValidateWithinBounds("4°36'56.78''", "-74°5'0.00''", iberia)
	require.NoError(t, err)
	require.False(t, res.Valid)
}

func TestStrictParserBounds(t *testing.T) {
	p := Parser{Strict: true}
	_, err := p.ValidateWithinBounds("4°75'0''", "-74°0'0''", ColombiaBounds)
	require.True(t, IsFormatError(err))

	res, err := ValidateWithinBounds("4°75'0''", "-74°0'0''", ColombiaBounds)
	require.NoError(t, err)
	require.True(t, res.Valid)
}

func TestBoundsContainsNaN(t *testing.T) {
	res := ColombiaBounds.Contains(math.NaN(), -74)
	require.False(t, res.Valid)
	require.Equal(t, ReasonLatitudeOutside, res.Reason)
}

func TestBoundsValidate(t *testing.T) {
	require.NoError(t, ColombiaBounds.Validate())
	require.Error(t, Bounds{LatMin: 10, LatMax: 0, LonMin: 0, LonMax: 1}.Validate())
	require.Error(t, Bounds{LatMin: 0, LatMax: 1, LonMin: 5, LonMax: 1}.Validate())
	require.Error(t, Bounds{LatMin: -91, LatMax: 1, LonMin: 0, LonMax: 1}.Validate())
	require.Error(t, Bounds{LatMin: 0, LatMax: 1, LonMin: 0, LonMax: 181}.Validate())
	require.Error(t, Bounds{LatMin: math.NaN(), LatMax: 1}.Validate())
}

func TestValidLatLon(t *testing.T) {
	require.True(t, ValidLatLon(4.6, -74.08))
	require.True(t, ValidLatLon(-90, 180))
	require.False(t, ValidLatLon(91, 0))
	require.False(t, ValidLatLon(0, -180.5))
	require.False(t, ValidLatLon(math.Inf(1), 0))
}
