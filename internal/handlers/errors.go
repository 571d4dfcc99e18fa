package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// HTTPError is an error that carries the status and message written to the client.
type HTTPError struct {
	Status  int
	Message string
	Cause   string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// StatusCode is the status written to the client.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func internalError(err error) *HTTPError {
	return &HTTPError{Status: fiber.StatusInternalServerError, Message: "Internal Server Error", Err: err}
}

// ErrorHandler is the fiber error handler. Declared statuses are echoed with
// their message, everything else becomes a generic 500.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var httpErr *HTTPError
		var fiberErr *fiber.Error

		status := fiber.StatusInternalServerError
		body := fiber.Map{"message": "Internal Server Error"}

		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Status
			body["message"] = httpErr.Message
			if httpErr.Cause != "" {
				body["cause"] = httpErr.Cause
			}
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			body["message"] = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("request failed")
		}
		return c.Status(status).JSON(body)
	}
}

// NotFound answers every request that matched no route.
func NotFound(c *fiber.Ctx) error {
	return &HTTPError{Status: fiber.StatusNotFound, Message: "route was not found"}
}
