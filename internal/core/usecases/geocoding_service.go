package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pierrre/geohash"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/core/ports"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
	"github.com/samirrijal/forestgeo/internal/pkg/logging"
	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
	"github.com/samirrijal/forestgeo/internal/pkg/telemetry"
)

// GeohashPrecision is the geohash length used for cache and store keys,
// roughly a 38 m x 19 m cell.
const GeohashPrecision = 8

// GeocodingOptions tunes GeocodingService.
type GeocodingOptions struct {
	Region           geospatial.Bounds
	RestrictToRegion bool
	Parser           geospatial.Parser
	CacheTTL         time.Duration
	ReuseRadiusM     float64
	BatchMax         int
}

// GeocodingService resolves coordinates to administrative places and back.
// Lookups read through cache, then the place store, then the provider.
type GeocodingService struct {
	geocoder  ports.Geocoder
	places    ports.PlaceRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	opts      GeocodingOptions
	tracer    trace.Tracer
	now       func() time.Time
}

// NewGeocodingService creates a new GeocodingService. places, cache and
// publisher may be nil.
func NewGeocodingService(
	geocoder ports.Geocoder,
	places ports.PlaceRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	opts GeocodingOptions,
) *GeocodingService {
	if opts.BatchMax <= 0 {
		opts.BatchMax = 500
	}
	return &GeocodingService{
		geocoder:  geocoder,
		places:    places,
		cache:     cache,
		publisher: publisher,
		opts:      opts,
		tracer:    telemetry.Tracer("usecases"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ReverseDMS parses a DMS pair and reverse geocodes it.
func (s *GeocodingService) ReverseDMS(ctx context.Context, latDMS, lonDMS string) (*domain.Place, error) {
	lat, err := s.opts.Parser.Parse(latDMS)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lon, err := s.opts.Parser.Parse(lonDMS)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	return s.Reverse(ctx, lat, lon)
}

// Reverse returns the administrative place containing lat/lon.
func (s *GeocodingService) Reverse(ctx context.Context, lat, lon float64) (*domain.Place, error) {
	ctx, span := s.tracer.Start(ctx, "GeocodingService.Reverse", trace.WithAttributes(
		telemetry.AttrLat.Float64(lat),
		telemetry.AttrLon.Float64(lon),
	))
	defer span.End()

	if !geospatial.ValidLatLon(lat, lon) {
		return nil, ErrInvalidCoordinates
	}
	if s.opts.RestrictToRegion {
		if res := s.opts.Region.Contains(lat, lon); !res.Valid {
			return nil, fmt.Errorf("%w: %s", ErrOutsideRegion, res.Reason)
		}
	}

	hash := geohash.Encode(lat, lon, GeohashPrecision)
	cacheKey := "geo:rev:" + hash
	span.SetAttributes(telemetry.AttrGeohash.String(hash))

	if place := s.cachedPlace(ctx, cacheKey); place != nil {
		metrics.GeocodeSource.WithLabelValues("reverse", "cache").Inc()
		span.SetAttributes(telemetry.AttrSource.String("cache"))
		return place, nil
	}

	if place := s.storedPlace(ctx, hash, lat, lon); place != nil {
		metrics.GeocodeSource.WithLabelValues("reverse", "store").Inc()
		span.SetAttributes(telemetry.AttrSource.String("store"))
		s.cachePut(ctx, cacheKey, place)
		return place, nil
	}

	place, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider reverse failed")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if place == nil {
		return nil, ErrNoResult
	}
	metrics.GeocodeSource.WithLabelValues("reverse", "provider").Inc()
	span.SetAttributes(
		telemetry.AttrSource.String("provider"),
		telemetry.AttrProvider.String(s.geocoder.Name()),
	)

	// A reverse result belongs to the queried point, not the feature centre.
	place.Location = domain.GeoPoint{Lat: lat, Lon: lon}
	place.Geohash = hash
	if place.Provider == "" {
		place.Provider = s.geocoder.Name()
	}
	if place.ResolvedAt.IsZero() {
		place.ResolvedAt = s.now()
	}

	if s.places != nil {
		if err := s.places.Upsert(ctx, place); err != nil {
			logging.FromContext(ctx).Warn("store resolved place", "geohash", hash, "error", err)
		}
	}
	s.cachePut(ctx, cacheKey, place)
	if s.publisher != nil {
		if err := s.publisher.PublishPlaceResolved(ctx, place); err != nil {
			logging.FromContext(ctx).Warn("publish place resolved", "geohash", hash, "error", err)
		}
	}

	return place, nil
}

func (s *GeocodingService) storedPlace(ctx context.Context, hash string, lat, lon float64) *domain.Place {
	if s.places == nil {
		return nil
	}
	log := logging.FromContext(ctx)

	place, err := s.places.GetByGeohash(ctx, hash)
	if err != nil {
		log.Warn("place store lookup", "geohash", hash, "error", err)
	} else if place != nil {
		return place
	}

	if s.opts.ReuseRadiusM <= 0 {
		return nil
	}
	place, err = s.places.Nearest(ctx, lat, lon, s.opts.ReuseRadiusM)
	if err != nil {
		log.Warn("place store nearest", "geohash", hash, "error", err)
		return nil
	}
	return place
}

// Forward resolves a place name to candidate places, best first.
func (s *GeocodingService) Forward(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		return nil, ErrQueryTooLong
	}
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	ctx, span := s.tracer.Start(ctx, "GeocodingService.Forward", trace.WithAttributes(
		telemetry.AttrQuery.String(query),
		telemetry.AttrLimit.Int(limit),
	))
	defer span.End()

	cacheKey := fmt.Sprintf("geo:fwd:%s:%d", strings.ToLower(query), limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.GeocodeSource.WithLabelValues("forward", "cache").Inc()
				return places, nil
			}
		}
	}

	places, err := s.geocoder.Forward(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider forward failed")
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	metrics.GeocodeSource.WithLabelValues("forward", "provider").Inc()

	if s.opts.RestrictToRegion {
		kept := places[:0]
		for _, p := range places {
			if s.opts.Region.Contains(p.Location.Lat, p.Location.Lon).Valid {
				kept = append(kept, p)
			}
		}
		places = kept
	}
	if len(places) == 0 {
		return nil, ErrNoResult
	}
	for i := range places {
		if places[i].Provider == "" {
			places[i].Provider = s.geocoder.Name()
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.ttlSeconds())
		}
	}

	return places, nil
}

// RequestBatch validates points and publishes a batch request for the
// background worker. The returned request carries the assigned ID.
func (s *GeocodingService) RequestBatch(ctx context.Context, points []domain.GeoPoint) (*domain.BatchRequest, error) {
	if len(points) == 0 {
		return nil, ErrBatchEmpty
	}
	if len(points) > s.opts.BatchMax {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(points), s.opts.BatchMax)
	}
	for i, p := range points {
		if !geospatial.ValidLatLon(p.Lat, p.Lon) {
			return nil, fmt.Errorf("point %d: %w", i, ErrInvalidCoordinates)
		}
	}
	if s.publisher == nil {
		return nil, ErrBatchUnavailable
	}

	req := &domain.BatchRequest{
		ID:          uuid.NewString(),
		Points:      points,
		RequestedAt: s.now(),
	}
	if err := s.publisher.PublishBatchRequested(ctx, req); err != nil {
		return nil, fmt.Errorf("publish batch request: %w", err)
	}
	return req, nil
}

// ListPlaces returns stored places in resolution order and the total count.
func (s *GeocodingService) ListPlaces(ctx context.Context, offset, limit int) ([]domain.Place, int, error) {
	if s.places == nil {
		return []domain.Place{}, 0, nil
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.places.List(ctx, offset, limit)
}

// SearchPlaces searches stored places by name, municipality or department.
func (s *GeocodingService) SearchPlaces(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		return nil, ErrQueryTooLong
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if s.places == nil {
		return []domain.Place{}, nil
	}
	return s.places.Search(ctx, query, limit)
}

// ProviderName returns the configured geocoding provider.
func (s *GeocodingService) ProviderName() string {
	return s.geocoder.Name()
}

func (s *GeocodingService) cachedPlace(ctx context.Context, key string) *domain.Place {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var place domain.Place
	if err := json.Unmarshal(data, &place); err != nil {
		return nil
	}
	return &place
}

func (s *GeocodingService) cachePut(ctx context.Context, key string, place *domain.Place) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(place); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttlSeconds())
	}
}

func (s *GeocodingService) ttlSeconds() int {
	ttl := int(s.opts.CacheTTL / time.Second)
	if ttl <= 0 {
		ttl = 3600
	}
	return ttl
}
