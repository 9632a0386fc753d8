package geocoder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/forestgeo/internal/adapters/geocoder"
	"github.com/samirrijal/forestgeo/internal/pkg/config"
)

const mapboxReverseBody = `{
  "type": "FeatureCollection",
  "features": [{
    "id": "place.2910412",
    "type": "Feature",
    "place_type": ["place"],
    "text": "Leticia",
    "place_name": "Leticia, Amazonas, Colombia",
    "center": [-69.9406, -4.2153],
    "context": [
      {"id": "region.9431", "text": "Amazonas", "short_code": "CO-AMA"},
      {"id": "country.8892", "text": "Colombia", "short_code": "co"}
    ]
  }]
}`

func TestMapbox_Reverse(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mapboxReverseBody))
	}))
	defer srv.Close()

	g, err := geocoder.NewMapbox(geocoder.MapboxOptions{
		BaseURL:  srv.URL,
		Token:    "pk.test",
		Language: "es",
		Timeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	place, err := g.Reverse(context.Background(), -4.2153, -69.9406)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/geocoding/v5/mapbox.places/-69.940600,-4.215300.json" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotQuery["access_token"][0] != "pk.test" || gotQuery["language"][0] != "es" {
		t.Errorf("unexpected query %v", gotQuery)
	}
	if place.Municipality != "Leticia" || place.Department != "Amazonas" || place.Country != "Colombia" {
		t.Errorf("unexpected place %+v", place)
	}
	if place.Location.Lat != -4.2153 || place.Location.Lon != -69.9406 {
		t.Errorf("expected [lon, lat] center decoded, got %+v", place.Location)
	}
	if place.ProviderRef != "place.2910412" || place.Provider != "mapbox" {
		t.Errorf("unexpected provider fields %+v", place)
	}
}

func TestMapbox_ReverseNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	g, _ := geocoder.NewMapbox(geocoder.MapboxOptions{BaseURL: srv.URL, Token: "pk.test"})
	place, err := g.Reverse(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place != nil {
		t.Errorf("expected nil place, got %+v", place)
	}
}

func TestMapbox_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
	}))
	defer srv.Close()

	g, _ := geocoder.NewMapbox(geocoder.MapboxOptions{BaseURL: srv.URL, Token: "pk.bad"})
	_, err := g.Forward(context.Background(), "Leticia", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 401") || !strings.Contains(err.Error(), "Invalid Token") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMapbox_Forward(t *testing.T) {
	var gotPath, gotCountry, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCountry = r.URL.Query().Get("country")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(mapboxReverseBody))
	}))
	defer srv.Close()

	g, _ := geocoder.NewMapbox(geocoder.MapboxOptions{BaseURL: srv.URL, Token: "pk.test", Country: "co"})
	places, err := g.Forward(context.Background(), "Puerto Nariño", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/geocoding/v5/mapbox.places/Puerto Nariño.json" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotCountry != "co" || gotLimit != "3" {
		t.Errorf("unexpected country=%s limit=%s", gotCountry, gotLimit)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
}

func TestMapbox_MissingToken(t *testing.T) {
	if _, err := geocoder.NewMapbox(geocoder.MapboxOptions{}); err == nil {
		t.Error("expected error for missing token")
	}
}

const googleReverseBody = `{
  "status": "OK",
  "results": [{
    "place_id": "ChIJ-leticia",
    "formatted_address": "Leticia, Amazonas, Colombia",
    "geometry": {"location": {"lat": -4.2153, "lng": -69.9406}},
    "address_components": [
      {"long_name": "Leticia", "short_name": "Leticia", "types": ["locality", "political"]},
      {"long_name": "Amazonas", "short_name": "Amazonas", "types": ["administrative_area_level_1", "political"]},
      {"long_name": "Colombia", "short_name": "CO", "types": ["country", "political"]}
    ]
  }]
}`

func TestGoogle_Reverse(t *testing.T) {
	var gotLatLng, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLatLng = r.URL.Query().Get("latlng")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(googleReverseBody))
	}))
	defer srv.Close()

	g, err := geocoder.NewGoogle(geocoder.GoogleOptions{APIKey: "AIza-test", BaseURL: srv.URL, Language: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	place, err := g.Reverse(context.Background(), -4.2153, -69.9406)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "AIza-test" {
		t.Errorf("expected api key forwarded, got %q", gotKey)
	}
	if !strings.HasPrefix(gotLatLng, "-4.2153") {
		t.Errorf("unexpected latlng %q", gotLatLng)
	}
	if place.Municipality != "Leticia" || place.Department != "Amazonas" || place.Country != "Colombia" {
		t.Errorf("unexpected place %+v", place)
	}
	if place.ProviderRef != "ChIJ-leticia" {
		t.Errorf("unexpected provider ref %s", place.ProviderRef)
	}
}

func TestGoogle_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	g, _ := geocoder.NewGoogle(geocoder.GoogleOptions{APIKey: "AIza-test", BaseURL: srv.URL})
	place, err := g.Reverse(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place != nil {
		t.Errorf("expected nil place, got %+v", place)
	}
}

func TestGoogle_ForwardLimit(t *testing.T) {
	var gotComponents string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotComponents = r.URL.Query().Get("components")
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"formatted_address":"A"},{"formatted_address":"B"},{"formatted_address":"C"}]}`))
	}))
	defer srv.Close()

	g, _ := geocoder.NewGoogle(geocoder.GoogleOptions{APIKey: "AIza-test", BaseURL: srv.URL, Country: "co"})
	places, err := g.Forward(context.Background(), "Leticia", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Errorf("expected 2 places, got %d", len(places))
	}
	if gotComponents != "country:CO" {
		t.Errorf("expected country component, got %q", gotComponents)
	}
}

func TestGoogle_DeniedIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	}))
	defer srv.Close()

	g, _ := geocoder.NewGoogle(geocoder.GoogleOptions{APIKey: "bad", BaseURL: srv.URL})
	if _, err := g.Reverse(context.Background(), 0, 0); err == nil {
		t.Error("expected error for REQUEST_DENIED")
	}
}

func TestNew_SelectsProvider(t *testing.T) {
	g, err := geocoder.New(config.GeocodingConfig{Provider: config.ProviderGoogle, GoogleAPIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name() != "google" {
		t.Errorf("expected google, got %s", g.Name())
	}

	g, err = geocoder.New(config.GeocodingConfig{Provider: config.ProviderMapbox, MapboxToken: "pk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name() != "mapbox" {
		t.Errorf("expected mapbox, got %s", g.Name())
	}

	if _, err := geocoder.New(config.GeocodingConfig{Provider: config.ProviderMapbox}); err == nil {
		t.Error("expected error for missing mapbox token")
	}
	if _, err := geocoder.New(config.GeocodingConfig{Provider: "osm"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
