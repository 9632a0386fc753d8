package geospatial

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned latitude/longitude rectangle in decimal degrees.
// Limits are inclusive.
type Bounds struct {
	LatMin float64 `json:"lat_min" mapstructure:"lat_min"`
	LatMax float64 `json:"lat_max" mapstructure:"lat_max"`
	LonMin float64 `json:"lon_min" mapstructure:"lon_min"`
	LonMax float64 `json:"lon_max" mapstructure:"lon_max"`
}

// ColombiaBounds covers continental Colombia.
var ColombiaBounds = Bounds{LatMin: -4.23, LatMax: 12.47, LonMin: -79.02, LonMax: -66.85}

const (
	ReasonLatitudeOutside  = "latitude outside region"
	ReasonLongitudeOutside = "longitude outside region"
)

// BoundsResult is the outcome of a region check. An out-of-region point is a
// normal result, not an error.
type BoundsResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Contains checks a decimal coordinate against b. Latitude is checked first.
func (b Bounds) Contains(lat, lon float64) BoundsResult {
	if !(lat >= b.LatMin && lat <= b.LatMax) {
		return BoundsResult{Reason: ReasonLatitudeOutside}
	}
	if !(lon >= b.LonMin && lon <= b.LonMax) {
		return BoundsResult{Reason: ReasonLongitudeOutside}
	}
	return BoundsResult{Valid: true}
}

// Validate rejects rectangles that are inverted, non-finite or outside the
// valid latitude/longitude ranges.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.LatMin, b.LatMax, b.LonMin, b.LonMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounds must be finite, got %+v", b)
		}
	}
	if b.LatMin > b.LatMax {
		return fmt.Errorf("lat_min %v greater than lat_max %v", b.LatMin, b.LatMax)
	}
	if b.LonMin > b.LonMax {
		return fmt.Errorf("lon_min %v greater than lon_max %v", b.LonMin, b.LonMax)
	}
	if b.LatMin < -90 || b.LatMax > 90 {
		return fmt.Errorf("latitude limits must lie within [-90, 90], got [%v, %v]", b.LatMin, b.LatMax)
	}
	if b.LonMin < -180 || b.LonMax > 180 {
		return fmt.Errorf("longitude limits must lie within [-180, 180], got [%v, %v]", b.LonMin, b.LonMax)
	}
	return nil
}

// ValidateWithinBounds parses a DMS latitude/longitude pair and checks it
// against b. Malformed input is returned as a wrapped *FormatError, never as
// an invalid BoundsResult.
func ValidateWithinBounds(latDMS, lonDMS string, b Bounds) (BoundsResult, error) {
	return lenient.ValidateWithinBounds(latDMS, lonDMS, b)
}

// ValidateWithinBounds parses the pair with p and checks it against b.
func (p Parser) ValidateWithinBounds(latDMS, lonDMS string, b Bounds) (BoundsResult, error) {
	lat, err := p.Parse(latDMS)
	if err != nil {
		return BoundsResult{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := p.Parse(lonDMS)
	if err != nil {
		return BoundsResult{}, fmt.Errorf("longitude: %w", err)
	}
	return b.Contains(lat, lon), nil
}

// ValidLatLon reports whether lat/lon are finite and inside the world ranges.
func ValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
