package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys shared by geocoding spans.
const (
	AttrLat      = attribute.Key("geo.lat")
	AttrLon      = attribute.Key("geo.lon")
	AttrGeohash  = attribute.Key("geo.geohash")
	AttrQuery    = attribute.Key("geo.query")
	AttrLimit    = attribute.Key("geo.limit")
	AttrProvider = attribute.Key("geo.provider")
	// AttrSource is where a reverse result came from: cache, store or provider.
	AttrSource = attribute.Key("geo.source")
)
