package handlers

import (
	"usergroups/internal/middleware"
	"usergroups/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// respond writes a service Result verbatim. A service error becomes a 500.
func respond(c *fiber.Ctx, res services.Result, err error) error {
	if err != nil {
		return internalError(err)
	}
	return c.Status(res.StatusCode).JSON(res.Payload)
}

// guarded builds the handler chain of a single route: guards, the controller
// call logger, then handler. Guards are attached per route so that unmatched
// paths under a controller prefix still reach the not-found handler.
func guarded(log zerolog.Logger, guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guards)+2)
	out = append(out, guards...)
	return append(out, middleware.CallLogger(log), handler)
}
