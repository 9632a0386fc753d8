package http_test

import (
	"context"
	"sync"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

// ---- Mock ports ----

type mockGeocoder struct {
	reverseFn func(ctx context.Context, lat, lon float64) (*domain.Place, error)
	forwardFn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

func (m *mockGeocoder) Name() string { return "mock" }
func (m *mockGeocoder) Reverse(ctx context.Context, lat, lon float64) (*domain.Place, error) {
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

type mockPlaceRepo struct {
	listFn   func(ctx context.Context, offset, limit int) ([]domain.Place, int, error)
	searchFn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

func (m *mockPlaceRepo) Upsert(ctx context.Context, p *domain.Place) error { return nil }
func (m *mockPlaceRepo) GetByGeohash(ctx context.Context, hash string) (*domain.Place, error) {
	return nil, nil
}
func (m *mockPlaceRepo) Nearest(ctx context.Context, lat, lon, radius float64) (*domain.Place, error) {
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

type mockPublisher struct {
	mu        sync.Mutex
	requested []*domain.BatchRequest
}

func (m *mockPublisher) PublishPlaceResolved(ctx context.Context, p *domain.Place) error { return nil }
func (m *mockPublisher) PublishBatchRequested(ctx context.Context, r *domain.BatchRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, r)
	return nil
}
func (m *mockPublisher) PublishBatchCompleted(ctx context.Context, r *domain.BatchResult) error {
	return nil
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(ctx context.Context) error { return m.err }
