package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
)

const placeColumns = `id, geohash, name, municipality, department, country,
	lat, lon, provider, provider_ref, resolved_at`

// PlaceRepo implements ports.PlaceRepository with pgx.
type PlaceRepo struct {
	db *DB
}

// NewPlaceRepo creates a new PlaceRepo.
func NewPlaceRepo(db *DB) *PlaceRepo {
	return &PlaceRepo{db: db}
}

// Upsert inserts a place or refreshes the one stored under the same geohash.
// The stored ID is written back to p.
func (r *PlaceRepo) Upsert(ctx context.Context, p *domain.Place) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO places (geohash, name, municipality, department, country,
		                    lat, lon, provider, provider_ref, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (geohash) DO UPDATE
		SET name = EXCLUDED.name, municipality = EXCLUDED.municipality,
		    department = EXCLUDED.department, country = EXCLUDED.country,
		    lat = EXCLUDED.lat, lon = EXCLUDED.lon,
		    provider = EXCLUDED.provider, provider_ref = EXCLUDED.provider_ref,
		    resolved_at = EXCLUDED.resolved_at
		RETURNING id
	`, p.Geohash, p.Name, p.Municipality, p.Department, p.Country,
		p.Location.Lat, p.Location.Lon, p.Provider, p.ProviderRef, p.ResolvedAt,
	).Scan(&p.ID)
}

// GetByGeohash returns the place stored under hash, or nil.
func (r *PlaceRepo) GetByGeohash(ctx context.Context, hash string) (*domain.Place, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE geohash = $1`, hash)
	p, err := scanPlace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Nearest returns the closest stored place within radiusMeters, or nil.
// Candidates are prefiltered with a degree bounding box on the (lat, lon)
// index and ranked by great-circle distance.
func (r *PlaceRepo) Nearest(ctx context.Context, lat, lon, radiusMeters float64) (*domain.Place, error) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusMeters)

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places
		WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4
		LIMIT 200
	`, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var best *domain.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		d := geospatial.Haversine(lat, lon, p.Location.Lat, p.Location.Lon)
		if d > radiusMeters {
			continue
		}
		if best == nil || d < *best.Distance {
			p.Distance = &d
			best = p
		}
	}
	return best, rows.Err()
}

// Search matches name, municipality or department, best trigram match first.
func (r *PlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places
		WHERE name ILIKE '%' || $1 || '%'
		   OR municipality ILIKE '%' || $1 || '%'
		   OR department ILIKE '%' || $1 || '%'
		ORDER BY similarity(name, $1) DESC, name
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPlaces(rows)
}

// List returns places, most recently resolved first, with the total count.
func (r *PlaceRepo) List(ctx context.Context, offset, limit int) ([]domain.Place, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM places`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+placeColumns+`
		FROM places
		ORDER BY resolved_at DESC, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	places, err := collectPlaces(rows)
	if err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

func scanPlace(row pgx.Row) (*domain.Place, error) {
	var p domain.Place
	if err := row.Scan(
		&p.ID, &p.Geohash, &p.Name, &p.Municipality, &p.Department, &p.Country,
		&p.Location.Lat, &p.Location.Lon, &p.Provider, &p.ProviderRef, &p.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPlaces(rows pgx.Rows) ([]domain.Place, error) {
	places := []domain.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

