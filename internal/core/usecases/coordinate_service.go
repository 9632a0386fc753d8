package usecases

import (
	"fmt"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
)

// CoordinateService applies the configured parser mode and region to the
// geospatial conversions used by coordinate forms.
type CoordinateService struct {
	parser geospatial.Parser
	region geospatial.Bounds
}

// NewCoordinateService creates a new CoordinateService.
func NewCoordinateService(region geospatial.Bounds, strict bool) *CoordinateService {
	return &CoordinateService{
		parser: geospatial.Parser{Strict: strict},
		region: region,
	}
}

// Region returns the bounds points are checked against.
func (s *CoordinateService) Region() geospatial.Bounds {
	return s.region
}

// Strict reports whether minutes and seconds ranges are enforced.
func (s *CoordinateService) Strict() bool {
	return s.parser.Strict
}

// ToDecimal converts a DMS string to decimal degrees.
func (s *CoordinateService) ToDecimal(dms string) (float64, error) {
	v, err := s.parser.Parse(dms)
	countConversion("to_decimal", err)
	return v, err
}

// ToDMS converts decimal degrees to a DMS string.
func (s *CoordinateService) ToDMS(decimal float64) (string, error) {
	v, err := geospatial.FormatDMS(decimal)
	countConversion("to_dms", err)
	return v, err
}

// IsValid reports whether dms is accepted by the configured parser.
func (s *CoordinateService) IsValid(dms string) bool {
	if !s.parser.Strict {
		return geospatial.IsValidDMS(dms)
	}
	_, err := s.parser.Parse(dms)
	return err == nil
}

// CheckPoint parses a DMS pair and checks it against the region. The
// returned check carries both decimals and the normalized DMS strings.
func (s *CoordinateService) CheckPoint(latDMS, lonDMS string) (*domain.CoordinateCheck, error) {
	lat, err := s.parser.Parse(latDMS)
	if err != nil {
		metrics.CoordinateChecks.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lon, err := s.parser.Parse(lonDMS)
	if err != nil {
		metrics.CoordinateChecks.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("longitude: %w", err)
	}
	return s.check(lat, lon)
}

// CheckDecimal is CheckPoint for decimal input.
func (s *CoordinateService) CheckDecimal(lat, lon float64) (*domain.CoordinateCheck, error) {
	return s.check(lat, lon)
}

func (s *CoordinateService) check(lat, lon float64) (*domain.CoordinateCheck, error) {
	latDMS, err := geospatial.FormatDMS(lat)
	if err != nil {
		metrics.CoordinateChecks.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lonDMS, err := geospatial.FormatDMS(lon)
	if err != nil {
		metrics.CoordinateChecks.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("longitude: %w", err)
	}

	res := s.region.Contains(lat, lon)
	outcome := "inside"
	if !res.Valid {
		outcome = "outside"
	}
	metrics.CoordinateChecks.WithLabelValues(outcome).Inc()

	return &domain.CoordinateCheck{
		LatitudeDMS:  latDMS,
		LongitudeDMS: lonDMS,
		Latitude:     lat,
		Longitude:    lon,
		Valid:        res.Valid,
		Reason:       res.Reason,
	}, nil
}

// Distance returns the great-circle distance between two DMS points.
func (s *CoordinateService) Distance(lat1, lon1, lat2, lon2 string) (*domain.DistanceResult, error) {
	m, err := s.parser.HaversineDMS(lat1, lon1, lat2, lon2)
	if err != nil {
		return nil, err
	}
	return newDistance(m), nil
}

// DistanceDecimal returns the great-circle distance between two decimal points.
func (s *CoordinateService) DistanceDecimal(from, to domain.GeoPoint) (*domain.DistanceResult, error) {
	if !geospatial.ValidLatLon(from.Lat, from.Lon) || !geospatial.ValidLatLon(to.Lat, to.Lon) {
		return nil, ErrInvalidCoordinates
	}
	return newDistance(geospatial.Haversine(from.Lat, from.Lon, to.Lat, to.Lon)), nil
}

func newDistance(m float64) *domain.DistanceResult {
	return &domain.DistanceResult{Meters: m, Kilometers: m / 1000}
}

func countConversion(direction string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.CoordinateConversions.WithLabelValues(direction, result).Inc()
}
