// Package geocoder adapts third-party geocoding APIs to ports.Geocoder.
// Base URLs and credentials are only ever read from configuration.
package geocoder

import (
	"fmt"

	"github.com/samirrijal/forestgeo/internal/core/ports"
	"github.com/samirrijal/forestgeo/internal/pkg/config"
)

// New builds the geocoder selected by cfg.Provider.
func New(cfg config.GeocodingConfig) (ports.Geocoder, error) {
	switch cfg.Provider {
	case config.ProviderMapbox:
		return NewMapbox(MapboxOptions{
			BaseURL:  cfg.MapboxBaseURL,
			Token:    cfg.MapboxToken,
			Country:  cfg.Country,
			Language: cfg.Language,
			Timeout:  cfg.Timeout,
		})
	case config.ProviderGoogle:
		return NewGoogle(GoogleOptions{
			APIKey:   cfg.GoogleAPIKey,
			Country:  cfg.Country,
			Language: cfg.Language,
			Timeout:  cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}
}
