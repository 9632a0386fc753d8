package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/forestgeo/internal/adapters/postgres"
	"github.com/samirrijal/forestgeo/internal/core/usecases"
)

// Pinger is a cache backend that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Coordinates *usecases.CoordinateService
	Geocoding   *usecases.GeocodingService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       Pinger
	Version     string
}
