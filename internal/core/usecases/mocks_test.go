package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/core/ports"
)

// --- Mock Geocoder ---

type mockGeocoder struct {
	reverseFn func(ctx context.Context, lat, lon float64) (*domain.Place, error)
	forwardFn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
	reverses  int
}

func (m *mockGeocoder) Name() string { return "mock" }

func (m *mockGeocoder) Reverse(ctx context.Context, lat, lon float64) (*domain.Place, error) {
	m.reverses++
	if m.reverseFn != nil {
		return m.reverseFn(ctx, lat, lon)
	}
	return nil, nil
}

func (m *mockGeocoder) Forward(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if m.forwardFn != nil {
		return m.forwardFn(ctx, query, limit)
	}
	return nil, nil
}

// --- Mock PlaceRepository ---

type mockPlaceRepo struct {
	upsertFn       func(ctx context.Context, place *domain.Place) error
	getByGeohashFn func(ctx context.Context, hash string) (*domain.Place, error)
	nearestFn      func(ctx context.Context, lat, lon, radius float64) (*domain.Place, error)
	searchFn       func(ctx context.Context, query string, limit int) ([]domain.Place, error)
	listFn         func(ctx context.Context, offset, limit int) ([]domain.Place, int, error)
	upserted       []domain.Place
}

func (m *mockPlaceRepo) Upsert(ctx context.Context, place *domain.Place) error {
	m.upserted = append(m.upserted, *place)
	if m.upsertFn != nil {
		return m.upsertFn(ctx, place)
	}
	return nil
}

func (m *mockPlaceRepo) GetByGeohash(ctx context.Context, hash string) (*domain.Place, error) {
	if m.getByGeohashFn != nil {
		return m.getByGeohashFn(ctx, hash)
	}
	return nil, nil
}

func (m *mockPlaceRepo) Nearest(ctx context.Context, lat, lon, radius float64) (*domain.Place, error) {
	if m.nearestFn != nil {
		return m.nearestFn(ctx, lat, lon, radius)
	}
	return nil, nil
}

func (m *mockPlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockPlaceRepo) List(ctx context.Context, offset, limit int) ([]domain.Place, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

// --- In-memory CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttlSeconds
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	resolved  []domain.Place
	requested []domain.BatchRequest
	completed []domain.BatchResult
	err       error
}

func (m *mockPublisher) PublishPlaceResolved(ctx context.Context, place *domain.Place) error {
	m.resolved = append(m.resolved, *place)
	return m.err
}

func (m *mockPublisher) PublishBatchRequested(ctx context.Context, req *domain.BatchRequest) error {
	m.requested = append(m.requested, *req)
	return m.err
}

func (m *mockPublisher) PublishBatchCompleted(ctx context.Context, res *domain.BatchResult) error {
	m.completed = append(m.completed, *res)
	return m.err
}
