package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "forestgeo",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "forestgeo",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Coordinate metrics
	CoordinateChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "coordinates",
		Name:      "checks_total",
		Help:      "Coordinate region checks by outcome (inside, outside, malformed)",
	}, []string{"outcome"})

	CoordinateConversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "coordinates",
		Name:      "conversions_total",
		Help:      "DMS/decimal conversions by direction and result",
	}, []string{"direction", "result"})

	// Geocoding provider metrics
	GeocoderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "geocoder",
		Name:      "requests_total",
		Help:      "Total geocoding provider requests",
	}, []string{"provider", "kind"})

	GeocoderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "geocoder",
		Name:      "failures_total",
		Help:      "Total failed geocoding provider requests",
	}, []string{"provider", "kind"})

	GeocoderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "forestgeo",
		Subsystem: "geocoder",
		Name:      "request_duration_seconds",
		Help:      "Geocoding provider call latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"provider", "kind"})

	GeocodeSource = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "geocoder",
		Name:      "lookups_total",
		Help:      "Reverse/forward lookups by where the answer came from (cache, store, provider)",
	}, []string{"kind", "source"})

	BatchesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "batch",
		Name:      "completed_total",
		Help:      "Finished batch reverse geocoding runs by outcome (ok, partial, failed)",
	}, []string{"result"})

	BatchRequestsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "batch",
		Name:      "requests_consumed_total",
		Help:      "Batch requests read from the broker by outcome (started, retried, dropped)",
	}, []string{"outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "forestgeo",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forestgeo",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "forestgeo",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "forestgeo",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "forestgeo",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// ObserveGeocoder records one provider call. err may be nil.
func ObserveGeocoder(provider, kind string, start time.Time, err error) {
	GeocoderRequests.WithLabelValues(provider, kind).Inc()
	GeocoderDuration.WithLabelValues(provider, kind).Observe(time.Since(start).Seconds())
	if err != nil {
		GeocoderFailures.WithLabelValues(provider, kind).Inc()
	}
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat read for pool gauges.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics updates database pool gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
