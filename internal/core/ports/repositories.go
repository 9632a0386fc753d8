package ports

import (
	"context"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

// PlaceRepository persists resolved places so repeated lookups for the same
// sampling points do not hit the geocoding provider.
type PlaceRepository interface {
	Upsert(ctx context.Context, place *domain.Place) error
	// GetByGeohash returns nil when no place is stored under geohash.
	GetByGeohash(ctx context.Context, geohash string) (*domain.Place, error)
	// Nearest returns the closest stored place within radiusMeters, or nil.
	Nearest(ctx context.Context, lat, lon, radiusMeters float64) (*domain.Place, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
	List(ctx context.Context, offset, limit int) ([]domain.Place, int, error)
}
