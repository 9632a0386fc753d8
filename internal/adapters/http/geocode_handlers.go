package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

type batchRequest struct {
	Points []domain.GeoPoint `json:"points"`
}

// ReverseGeocodeHandler resolves ?lat=&lon= (decimal) or
// ?latitude=&longitude= (DMS) to the administrative place containing it.
func ReverseGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var (
			place *domain.Place
			err   error
		)
		switch {
		case c.Query("lat") != "" || c.Query("lon") != "":
			lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
			lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
			if errLat != nil || errLon != nil {
				return errBadRequest(c, "lat and lon must both be numbers")
			}
			place, err = deps.Geocoding.Reverse(ctx, lat, lon)
		case c.Query("latitude") != "" && c.Query("longitude") != "":
			place, err = deps.Geocoding.ReverseDMS(ctx, c.Query("latitude"), c.Query("longitude"))
		default:
			return errBadRequest(c, "lat and lon, or latitude and longitude in DMS, are required")
		}
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(place)
	}
}

// ForwardGeocodeHandler resolves ?q= to candidate places.
func ForwardGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Geocoding.Forward(c.UserContext(), c.Query("q"), c.QueryInt("limit", 5))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"data": places})
	}
}

// BatchGeocodeHandler queues a batch reverse-geocoding request.
func BatchGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req batchRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		batch, err := deps.Geocoding.RequestBatch(c.UserContext(), req.Points)
		if err != nil {
			return errFromService(c, err)
		}
		c.Location("/ws")
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"id":           batch.ID,
			"points":       len(batch.Points),
			"requested_at": batch.RequestedAt,
		})
	}
}

// ListPlacesHandler returns stored places, most recently resolved first.
func ListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := max(c.QueryInt("offset", 0), 0)
		limit := c.QueryInt("limit", 20)
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		places, total, err := deps.Geocoding.ListPlaces(c.UserContext(), offset, limit)
		if err != nil {
			return errFromService(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: places, Pagination: pg})
	}
}

// SearchPlacesHandler searches stored places by name.
func SearchPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Geocoding.SearchPlaces(c.UserContext(), c.Query("q"), c.QueryInt("limit", 20))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(fiber.Map{"data": places})
	}
}
