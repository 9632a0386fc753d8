package geospatial

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a just past 1 for near-antipodal points.
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// HaversineDMS is Haversine over DMS inputs. The first argument that fails
// to parse is reported as a wrapped *FormatError.
func HaversineDMS(lat1, lon1, lat2, lon2 string) (float64, error) {
	return lenient.HaversineDMS(lat1, lon1, lat2, lon2)
}

// HaversineDMS parses the four coordinates with p and returns the distance in meters.
func (p Parser) HaversineDMS(lat1, lon1, lat2, lon2 string) (float64, error) {
	args := [4]struct {
		name string
		dms  string
	}{{"lat1", lat1}, {"lon1", lon1}, {"lat2", lat2}, {"lon2", lon2}}

	var dec [4]float64
	for i, a := range args {
		v, err := p.Parse(a.dms)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", a.name, err)
		}
		dec[i] = v
	}
	return Haversine(dec[0], dec[1], dec[2], dec[3]), nil
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
