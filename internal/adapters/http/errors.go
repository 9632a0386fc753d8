package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/forestgeo/internal/core/usecases"
	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, outside_region, upstream_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error. The cause is logged, not returned.
func errInternal(c *fiber.Ctx, err error) error {
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return newError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
}

// errFromService maps core and use case errors onto API errors.
func errFromService(c *fiber.Ctx, err error) error {
	switch {
	case geospatial.IsFormatError(err), geospatial.IsDomainError(err),
		errors.Is(err, usecases.ErrInvalidCoordinates),
		errors.Is(err, usecases.ErrEmptyQuery),
		errors.Is(err, usecases.ErrQueryTooLong),
		errors.Is(err, usecases.ErrBatchEmpty),
		errors.Is(err, usecases.ErrBatchTooLarge):
		return errBadRequest(c, err.Error())
	case errors.Is(err, usecases.ErrNoResult):
		return errNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrOutsideRegion):
		return newError(c, fiber.StatusUnprocessableEntity, "outside_region", err.Error())
	case errors.Is(err, usecases.ErrBatchUnavailable):
		return newError(c, fiber.StatusServiceUnavailable, "unavailable", err.Error())
	case errors.Is(err, usecases.ErrProviderUnavailable):
		LoggerFromCtx(c.UserContext()).Warn("geocoding provider failed", "error", err)
		return newError(c, fiber.StatusBadGateway, "upstream_error", usecases.ErrProviderUnavailable.Error())
	default:
		return errInternal(c, err)
	}
}
