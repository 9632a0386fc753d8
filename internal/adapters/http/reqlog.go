package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/forestgeo/internal/pkg/logging"
)

// RequestIDLogMiddleware puts a logger tagged with the request ID into the
// user context. Handlers and use cases read it back with LoggerFromCtx or
// logging.FromContext, so provider and store warnings carry the same ID as
// the access log line.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			rid = c.Get(fiber.HeaderXRequestID)
		}
		if rid == "" {
			return c.Next()
		}

		c.SetUserContext(logging.WithLogger(c.UserContext(),
			slog.Default().With(slog.String("request_id", rid))))
		return c.Next()
	}
}

// LoggerFromCtx returns the request logger, or slog.Default outside a request.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
