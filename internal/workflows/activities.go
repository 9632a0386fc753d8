package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/core/ports"
	"github.com/samirrijal/forestgeo/internal/core/usecases"
	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
)

// Activity names as registered on the worker.
const (
	ActivityReverseGeocode        = "ReverseGeocode"
	ActivityPublishBatchCompleted = "PublishBatchCompleted"
)

// errTypeUnresolvable marks points no retry can resolve.
const errTypeUnresolvable = "PointUnresolvable"

// GeocodingActivities holds the activity implementations for batch geocoding.
type GeocodingActivities struct {
	Geocoding *usecases.GeocodingService
	Publisher ports.EventPublisher
}

// ReverseGeocode resolves one point. Points outside the region, out of range
// or without a provider result fail without retry.
func (a *GeocodingActivities) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.Place, error) {
	place, err := a.Geocoding.Reverse(ctx, point.Lat, point.Lon)
	switch {
	case err == nil:
		return place, nil
	case errors.Is(err, usecases.ErrNoResult),
		errors.Is(err, usecases.ErrOutsideRegion),
		errors.Is(err, usecases.ErrInvalidCoordinates):
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), errTypeUnresolvable, err)
	default:
		return nil, err
	}
}

// PublishBatchCompleted announces a finished batch.
func (a *GeocodingActivities) PublishBatchCompleted(ctx context.Context, res *domain.BatchResult) error {
	outcome := "ok"
	switch {
	case res.Resolved == 0:
		outcome = "failed"
	case res.Failed > 0:
		outcome = "partial"
	}
	metrics.BatchesCompleted.WithLabelValues(outcome).Inc()

	if a.Publisher == nil {
		activity.GetLogger(ctx).Warn("no publisher, batch result dropped", "batchID", res.ID)
		return nil
	}
	if err := a.Publisher.PublishBatchCompleted(ctx, res); err != nil {
		return fmt.Errorf("publish batch %s: %w", res.ID, err)
	}
	return nil
}
