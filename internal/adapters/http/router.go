package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
)

const (
	requestTimeout = 15 * time.Second
	// geocodeTimeout leaves room for a slow provider behind cache and store.
	geocodeTimeout = 20 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(recover.New())

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(legacyRoutes))

	// Health & readiness, no timeout
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Coordinates: pure conversions, no I/O
	v1.Get("/coordinates/decimal", timeout.NewWithContext(ToDecimalHandler(deps), requestTimeout))
	v1.Get("/coordinates/dms", timeout.NewWithContext(ToDMSHandler(deps), requestTimeout))
	v1.Get("/coordinates/validate", timeout.NewWithContext(ValidateDMSHandler(deps), requestTimeout))
	v1.Post("/coordinates/check", timeout.NewWithContext(CheckPointHandler(deps), requestTimeout))
	v1.Post("/coordinates/geojson", timeout.NewWithContext(GeoJSONHandler(deps), requestTimeout))
	v1.Post("/distance", timeout.NewWithContext(DistanceHandler(deps), requestTimeout))
	v1.Get("/region", timeout.NewWithContext(RegionHandler(deps), requestTimeout))

	// Legacy aliases
	v1.Get("/dms-a-decimal", timeout.NewWithContext(ToDecimalHandler(deps), requestTimeout))
	v1.Get("/decimal-a-dms", timeout.NewWithContext(ToDMSHandler(deps), requestTimeout))
	v1.Post("/calcular-distancia", timeout.NewWithContext(DistanceHandler(deps), requestTimeout))

	// Geocoding
	if deps.Geocoding != nil {
		v1.Get("/geocode/reverse", timeout.NewWithContext(ReverseGeocodeHandler(deps), geocodeTimeout))
		v1.Get("/geocode/forward", timeout.NewWithContext(ForwardGeocodeHandler(deps), geocodeTimeout))
		v1.Post("/geocode/batch", timeout.NewWithContext(BatchGeocodeHandler(deps), requestTimeout))
		v1.Get("/places", timeout.NewWithContext(ListPlacesHandler(deps), requestTimeout))
		v1.Get("/places/search", timeout.NewWithContext(SearchPlacesHandler(deps), requestTimeout))
	}

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, "api/openapi.yaml")

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
