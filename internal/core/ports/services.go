package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Geocoder is a third-party geocoding provider.
type Geocoder interface {
	Name() string
	// Reverse resolves the administrative place containing lat/lon.
	// It returns (nil, nil) when the provider has no result.
	Reverse(ctx context.Context, lat, lon float64) (*domain.Place, error)
	// Forward resolves a place name to candidate places, best first.
	Forward(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPlaceResolved(ctx context.Context, place *domain.Place) error
	PublishBatchRequested(ctx context.Context, req *domain.BatchRequest) error
	PublishBatchCompleted(ctx context.Context, res *domain.BatchResult) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeBatchRequests(ctx context.Context, handler func(ctx context.Context, req *domain.BatchRequest) error) error
}

// BatchRunner executes a batch reverse-geocoding request to completion.
type BatchRunner interface {
	StartBatch(ctx context.Context, req *domain.BatchRequest) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
