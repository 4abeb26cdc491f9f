package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorLocalKey is where handlers leave an internal error for the request logger.
const ErrorLocalKey = "internal_error"

// Logger is a middleware that logs each HTTP request as one JSON line.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
//
// Internal errors stored under ErrorLocalKey, or returned to Fiber's error
// handler, are attached with WithError. They never reach the client.
func Logger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request
		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		entry := log.WithFields(logrus.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})
		if ie, ok := c.Locals(ErrorLocalKey).(error); ok {
			entry = entry.WithError(ie)
		} else if err != nil && status >= fiber.StatusInternalServerError {
			entry = entry.WithError(err)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("http request")
		case status >= fiber.StatusBadRequest:
			entry.Warn("http request")
		default:
			entry.Info("http request")
		}
		return err
	}
}
