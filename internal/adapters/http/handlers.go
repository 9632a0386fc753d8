package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
)

// maxGeoJSONPoints caps POST /v1/coordinates/geojson.
const maxGeoJSONPoints = 1000

type dmsPoint struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type distanceRequest struct {
	From dmsPoint `json:"from"`
	To   dmsPoint `json:"to"`
}

type geoJSONPoint struct {
	ID        string `json:"id"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type geoJSONRequest struct {
	Points []geoJSONPoint `json:"points"`
}

// ToDecimalHandler converts ?dms= to decimal degrees.
func ToDecimalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dms := c.Query("dms")
		if dms == "" {
			return errBadRequest(c, "dms parameter is required")
		}
		v, err := deps.Coordinates.ToDecimal(dms)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"dms": dms, "decimal": v})
	}
}

// ToDMSHandler converts ?decimal= to a DMS string.
func ToDMSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("decimal")
		if raw == "" {
			return errBadRequest(c, "decimal parameter is required")
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errBadRequest(c, "decimal must be a number")
		}
		dms, err := deps.Coordinates.ToDMS(v)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"decimal": v, "dms": dms})
	}
}

// ValidateDMSHandler reports whether ?dms= is accepted. Malformed input is
// an answer here, not an error.
func ValidateDMSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dms := c.Query("dms")
		return c.JSON(fiber.Map{"dms": dms, "valid": deps.Coordinates.IsValid(dms)})
	}
}

// CheckPointHandler validates a DMS pair and checks it against the region.
func CheckPointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dmsPoint
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.Latitude == "" || req.Longitude == "" {
			return errBadRequest(c, "latitude and longitude are required")
		}
		check, err := deps.Coordinates.CheckPoint(req.Latitude, req.Longitude)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(check)
	}
}

// DistanceHandler returns the great-circle distance between two DMS points.
func DistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req distanceRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.From.Latitude == "" || req.From.Longitude == "" || req.To.Latitude == "" || req.To.Longitude == "" {
			return errBadRequest(c, "from and to need latitude and longitude")
		}
		d, err := deps.Coordinates.Distance(req.From.Latitude, req.From.Longitude, req.To.Latitude, req.To.Longitude)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(d)
	}
}

// RegionHandler returns the configured region bounds.
func RegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"bounds": deps.Coordinates.Region(),
			"strict": deps.Coordinates.Strict(),
		})
	}
}

// GeoJSONHandler checks a list of DMS points and returns them as a GeoJSON
// FeatureCollection for map widgets.
func GeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req geoJSONRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if len(req.Points) == 0 {
			return errBadRequest(c, "points must not be empty")
		}
		if len(req.Points) > maxGeoJSONPoints {
			return errBadRequest(c, fmt.Sprintf("at most %d points per request", maxGeoJSONPoints))
		}

		features := make([]*geojson.Feature, 0, len(req.Points))
		for i, p := range req.Points {
			id := p.ID
			if id == "" {
				id = strconv.Itoa(i)
			}
			check, err := deps.Coordinates.CheckPoint(p.Latitude, p.Longitude)
			if err != nil {
				return errFromService(c, fmt.Errorf("point %s: %w", id, err))
			}
			props := map[string]interface{}{
				"latitude_dms":  check.LatitudeDMS,
				"longitude_dms": check.LongitudeDMS,
				"valid":         check.Valid,
			}
			if check.Reason != "" {
				props["reason"] = check.Reason
			}
			features = append(features, geospatial.PointFeature(id, check.Latitude, check.Longitude, props))
		}

		return c.JSON(geospatial.FeatureCollection(features...), "application/geo+json")
	}
}
