package workflows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/core/usecases"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
	"github.com/samirrijal/forestgeo/internal/workflows"
)

type BatchWorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *BatchWorkflowSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterWorkflow(workflows.BatchReverseGeocodeWorkflow)
	s.env.RegisterActivity(&workflows.GeocodingActivities{})
}

func (s *BatchWorkflowSuite) AfterTest(_, _ string) {
	s.env.AssertExpectations(s.T())
}

func TestBatchWorkflowSuite(t *testing.T) {
	suite.Run(t, new(BatchWorkflowSuite))
}

func batchOf(points ...domain.GeoPoint) domain.BatchRequest {
	return domain.BatchRequest{ID: "b-1", Points: points}
}

func (s *BatchWorkflowSuite) TestAllResolved() {
	s.env.OnActivity(workflows.ActivityReverseGeocode, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, p domain.GeoPoint) (*domain.Place, error) {
			return &domain.Place{Name: "Leticia", Location: p}, nil
		})
	var published *domain.BatchResult
	s.env.OnActivity(workflows.ActivityPublishBatchCompleted, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, res *domain.BatchResult) error {
			published = res
			return nil
		}).Once()

	points := make([]domain.GeoPoint, 11)
	for i := range points {
		points[i] = domain.GeoPoint{Lat: -4.2 + float64(i)*0.01, Lon: -69.94}
	}
	s.env.ExecuteWorkflow(workflows.BatchReverseGeocodeWorkflow, batchOf(points...))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var res domain.BatchResult
	s.NoError(s.env.GetWorkflowResult(&res))
	s.Equal(11, res.Resolved)
	s.Equal(0, res.Failed)
	s.Len(res.Places, 11)
	s.Equal(points[10], res.Places[10].Location, "places keep request order")
	s.False(res.CompletedAt.IsZero())

	s.Require().NotNil(published)
	s.Equal("b-1", published.ID)
}

func (s *BatchWorkflowSuite) TestPartialFailure() {
	s.env.OnActivity(workflows.ActivityReverseGeocode, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, p domain.GeoPoint) (*domain.Place, error) {
			if p.Lat > 12 {
				return nil, temporal.NewNonRetryableApplicationError("outside", "PointUnresolvable", nil)
			}
			return &domain.Place{Name: "Bogotá"}, nil
		})
	s.env.OnActivity(workflows.ActivityPublishBatchCompleted, mock.Anything, mock.Anything).Return(nil).Once()

	s.env.ExecuteWorkflow(workflows.BatchReverseGeocodeWorkflow, batchOf(
		domain.GeoPoint{Lat: 4.6, Lon: -74.08},
		domain.GeoPoint{Lat: 20, Lon: -74.08},
	))

	s.NoError(s.env.GetWorkflowError())
	var res domain.BatchResult
	s.NoError(s.env.GetWorkflowResult(&res))
	s.Equal(1, res.Resolved)
	s.Equal(1, res.Failed)
}

func (s *BatchWorkflowSuite) TestPublishFailureFailsWorkflow() {
	s.env.OnActivity(workflows.ActivityReverseGeocode, mock.Anything, mock.Anything).Return(&domain.Place{Name: "Bogotá"}, nil)
	s.env.OnActivity(workflows.ActivityPublishBatchCompleted, mock.Anything, mock.Anything).Return(
		temporal.NewNonRetryableApplicationError("nats down", "Publish", nil))

	s.env.ExecuteWorkflow(workflows.BatchReverseGeocodeWorkflow, batchOf(domain.GeoPoint{Lat: 4.6, Lon: -74.08}))

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

// ---- Activities ----

type stubGeocoder struct {
	place *domain.Place
	err   error
}

func (g stubGeocoder) Name() string { return "stub" }
func (g stubGeocoder) Reverse(ctx context.Context, lat, lon float64) (*domain.Place, error) {
	return g.place, g.err
}
func (g stubGeocoder) Forward(ctx context.Context, q string, limit int) ([]domain.Place, error) {
	return nil, nil
}

func newActivities(g stubGeocoder) *workflows.GeocodingActivities {
	return &workflows.GeocodingActivities{
		Geocoding: usecases.NewGeocodingService(g, nil, nil, nil, usecases.GeocodingOptions{
			Region:           geospatial.ColombiaBounds,
			RestrictToRegion: true,
		}),
	}
}

func TestReverseGeocodeActivity_NonRetryable(t *testing.T) {
	tests := []struct {
		name  string
		geo   stubGeocoder
		point domain.GeoPoint
	}{
		{"no result", stubGeocoder{}, domain.GeoPoint{Lat: 4.6, Lon: -74.08}},
		{"outside region", stubGeocoder{}, domain.GeoPoint{Lat: 40.4, Lon: -3.7}},
		{"invalid", stubGeocoder{}, domain.GeoPoint{Lat: 91, Lon: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newActivities(tt.geo).ReverseGeocode(context.Background(), tt.point)
			var appErr *temporal.ApplicationError
			require.ErrorAs(t, err, &appErr)
			require.True(t, appErr.NonRetryable())
		})
	}
}

func TestReverseGeocodeActivity_ProviderErrorRetries(t *testing.T) {
	acts := newActivities(stubGeocoder{err: errors.New("timeout")})
	_, err := acts.ReverseGeocode(context.Background(), domain.GeoPoint{Lat: 4.6, Lon: -74.08})
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.False(t, errors.As(err, &appErr), "provider errors must stay retryable")
	require.ErrorIs(t, err, usecases.ErrProviderUnavailable)
}

func TestReverseGeocodeActivity_Success(t *testing.T) {
	acts := newActivities(stubGeocoder{place: &domain.Place{Name: "Bogotá"}})
	place, err := acts.ReverseGeocode(context.Background(), domain.GeoPoint{Lat: 4.6, Lon: -74.08})
	require.NoError(t, err)
	require.Equal(t, "Bogotá", place.Name)
	require.Equal(t, 4.6, place.Location.Lat)
}

// ---- Runner ----

func TestTemporalRunner_StartBatch(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.ID == workflows.WorkflowID("b-1") && o.TaskQueue == "forestgeo-geocoding"
	}), mock.Anything, mock.Anything).Return(nil, nil).Once()

	r := workflows.NewTemporalRunner(c, "forestgeo-geocoding")
	require.NoError(t, r.StartBatch(context.Background(), &domain.BatchRequest{ID: "b-1"}))
	c.AssertExpectations(t)
}

func TestTemporalRunner_DuplicateIsIgnored(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &serviceerror.WorkflowExecutionAlreadyStarted{Message: "already started"}).Once()

	r := workflows.NewTemporalRunner(c, "forestgeo-geocoding")
	require.NoError(t, r.StartBatch(context.Background(), &domain.BatchRequest{ID: "b-1"}))
}

func TestTemporalRunner_Error(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("unavailable")).Once()

	r := workflows.NewTemporalRunner(c, "forestgeo-geocoding")
	require.Error(t, r.StartBatch(context.Background(), &domain.BatchRequest{ID: "b-1"}))
}
