package geocoder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
)

const providerGoogle = "google"

// GoogleOptions configures the Google Maps client.
type GoogleOptions struct {
	APIKey   string
	BaseURL  string // optional, for tests
	Country  string
	Language string
	Timeout  time.Duration
}

// Google implements ports.Geocoder with the Google Maps Geocoding API.
type Google struct {
	client *maps.Client
	opts   GoogleOptions
}

// NewGoogle creates a Google geocoder. The API key is required.
func NewGoogle(opts GoogleOptions) (*Google, error) {
	if opts.APIKey == "" {
		return nil, errors.New("google: missing api key")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(opts.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Google{client: client, opts: opts}, nil
}

func (g *Google) Name() string { return providerGoogle }

// Reverse returns the municipality-level place containing lat/lon.
func (g *Google) Reverse(ctx context.Context, lat, lon float64) (p *domain.Place, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeocoder(providerGoogle, "reverse", start, err) }()

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:     &maps.LatLng{Lat: lat, Lng: lon},
		ResultType: []string{"locality", "administrative_area_level_2"},
		Language:   g.opts.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("google reverse: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	place := googlePlace(results[0])
	return &place, nil
}

// Forward returns candidate places for query, best first.
func (g *Google) Forward(ctx context.Context, query string, limit int) (places []domain.Place, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeocoder(providerGoogle, "forward", start, err) }()

	req := &maps.GeocodingRequest{
		Address:  query,
		Region:   g.opts.Country,
		Language: g.opts.Language,
	}
	if g.opts.Country != "" {
		req.Components = map[maps.Component]string{maps.ComponentCountry: strings.ToUpper(g.opts.Country)}
	}
	results, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("google forward: %w", err)
	}

	places = make([]domain.Place, 0, len(results))
	for i, r := range results {
		if i == limit {
			break
		}
		places = append(places, googlePlace(r))
	}
	return places, nil
}

func googlePlace(r maps.GeocodingResult) domain.Place {
	p := domain.Place{
		Name:        r.FormattedAddress,
		Location:    domain.GeoPoint{Lat: r.Geometry.Location.Lat, Lon: r.Geometry.Location.Lng},
		Provider:    providerGoogle,
		ProviderRef: r.PlaceID,
	}
	for _, c := range r.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "locality":
				p.Municipality = c.LongName
			case "administrative_area_level_2":
				if p.Municipality == "" {
					p.Municipality = c.LongName
				}
			case "administrative_area_level_1":
				p.Department = c.LongName
			case "country":
				p.Country = c.LongName
			}
		}
	}
	return p
}
