package domain

import (
	"time"
)

// GeoPoint is a WGS 84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is an administrative place resolved for a coordinate, e.g. the
// municipality and department a sampling point (conglomerado) falls in.
type Place struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"` // full display name from the provider
	Municipality string    `json:"municipality,omitempty"`
	Department   string    `json:"department,omitempty"`
	Country      string    `json:"country,omitempty"`
	Location     GeoPoint  `json:"location"`
	Provider     string    `json:"provider"`
	ProviderRef  string    `json:"provider_ref,omitempty"`
	Geohash      string    `json:"geohash,omitempty"`
	Distance     *float64  `json:"distance,omitempty"` // computed field, meters
	ResolvedAt   time.Time `json:"resolved_at"`
}

// CoordinateCheck is the outcome of validating a DMS coordinate pair against
// the configured region.
type CoordinateCheck struct {
	LatitudeDMS  string  `json:"latitude_dms"`
	LongitudeDMS string  `json:"longitude_dms"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Valid        bool    `json:"valid"`
	Reason       string  `json:"reason,omitempty"`
}

// DistanceResult is a great-circle distance between two points.
type DistanceResult struct {
	Meters     float64 `json:"meters"`
	Kilometers float64 `json:"kilometers"`
}

// BatchRequest asks for reverse geocoding of many points at once, typically
// all sampling points of an inventory cycle.
type BatchRequest struct {
	ID          string     `json:"id"`
	Points      []GeoPoint `json:"points"`
	RequestedAt time.Time  `json:"requested_at"`
}

// BatchResult summarises a finished batch.
type BatchResult struct {
	ID          string    `json:"id"`
	Resolved    int       `json:"resolved"`
	Failed      int       `json:"failed"`
	Places      []Place   `json:"places,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
