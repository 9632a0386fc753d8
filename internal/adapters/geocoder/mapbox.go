package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/samirrijal/forestgeo/internal/core/domain"
	"github.com/samirrijal/forestgeo/internal/pkg/metrics"
)

const providerMapbox = "mapbox"

// MapboxOptions configures the Mapbox client.
type MapboxOptions struct {
	BaseURL  string
	Token    string
	Country  string
	Language string
	Timeout  time.Duration
}

// Mapbox implements ports.Geocoder against the Mapbox Geocoding v5 API.
type Mapbox struct {
	opts   MapboxOptions
	client *fasthttp.Client
}

// NewMapbox creates a Mapbox geocoder. The access token is required.
func NewMapbox(opts MapboxOptions) (*Mapbox, error) {
	if opts.Token == "" {
		return nil, errors.New("mapbox: missing access token")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.mapbox.com"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Mapbox{
		opts: opts,
		client: &fasthttp.Client{
			Name:         "forestgeo",
			ReadTimeout:  opts.Timeout,
			WriteTimeout: opts.Timeout,
		},
	}, nil
}

func (m *Mapbox) Name() string { return providerMapbox }

type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
	Message  string          `json:"message"`
}

type mapboxFeature struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	PlaceName string          `json:"place_name"`
	PlaceType []string        `json:"place_type"`
	Center    []float64       `json:"center"`
	Context   []mapboxContext `json:"context"`
}

type mapboxContext struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
}

// Reverse returns the municipality-level place containing lat/lon.
func (m *Mapbox) Reverse(ctx context.Context, lat, lon float64) (*domain.Place, error) {
	q := m.query()
	q.Set("types", "place")
	q.Set("limit", "1")
	path := formatCoord(lon) + "," + formatCoord(lat) + ".json"

	res, err := m.do(ctx, "reverse", path, q)
	if err != nil {
		return nil, err
	}
	if len(res.Features) == 0 {
		return nil, nil
	}
	p := res.Features[0].place()
	return &p, nil
}

// Forward returns candidate places for query, best first.
func (m *Mapbox) Forward(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	q := m.query()
	q.Set("types", "place,locality,region")
	q.Set("limit", strconv.Itoa(limit))
	if m.opts.Country != "" {
		q.Set("country", m.opts.Country)
	}
	path := url.PathEscape(query) + ".json"

	res, err := m.do(ctx, "forward", path, q)
	if err != nil {
		return nil, err
	}
	places := make([]domain.Place, 0, len(res.Features))
	for _, f := range res.Features {
		places = append(places, f.place())
	}
	return places, nil
}

func (m *Mapbox) query() url.Values {
	q := url.Values{}
	q.Set("access_token", m.opts.Token)
	if m.opts.Language != "" {
		q.Set("language", m.opts.Language)
	}
	return q
}

func (m *Mapbox) do(ctx context.Context, kind, path string, q url.Values) (res *mapboxResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeocoder(providerMapbox, kind, start, err) }()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(m.opts.BaseURL + "/geocoding/v5/mapbox.places/" + path + "?" + q.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := start.Add(m.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := m.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("mapbox %s: %w", kind, err)
	}

	var body mapboxResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("mapbox %s: status %d: decode: %w", kind, resp.StatusCode(), err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("mapbox %s: status %d: %s", kind, resp.StatusCode(), body.Message)
	}
	return &body, nil
}

func (f mapboxFeature) place() domain.Place {
	p := domain.Place{
		Name:        f.PlaceName,
		Provider:    providerMapbox,
		ProviderRef: f.ID,
	}
	if len(f.Center) == 2 {
		p.Location = domain.GeoPoint{Lat: f.Center[1], Lon: f.Center[0]}
	}

	assign := func(layer, text string) {
		switch layer {
		case "place":
			p.Municipality = text
		case "region":
			p.Department = text
		case "country":
			p.Country = text
		}
	}
	for _, t := range f.PlaceType {
		assign(t, f.Text)
	}
	for _, c := range f.Context {
		layer, _, _ := strings.Cut(c.ID, ".")
		assign(layer, c.Text)
	}
	return p
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
