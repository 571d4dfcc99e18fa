package middleware

import (
	"encoding/json"
	"errors"

	"usergroups/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CallLogger logs every controller call with its method, params, query and
// body. Sensitive body fields are redacted. A call that ends in an error is
// logged at error level with the status the error handler will write.
func CallLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		event := log.Info()
		if err != nil {
			status = errorStatus(err)
			event = log.Error().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("params", c.AllParams()).
			Interface("query", c.Queries()).
			Interface("body", redactedBody(c.Body())).
			Int("status", status).
			Msg("controller call")
		return err
	}
}

// StatusCoder is implemented by errors that declare the status written for them.
type StatusCoder interface {
	StatusCode() int
}

// errorStatus is the status the error handler will write for err.
func errorStatus(err error) int {
	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

func redactedBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "[unparsed]"
	}
	return logger.RedactBody(body)
}
