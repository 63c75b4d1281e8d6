// Package middleware provides the Echo middleware pricewatch mounts on every
// route: request logging, panic recovery, and HTTP metrics.
package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const headerRequestID = "X-Request-ID"

// requestID returns the caller-supplied request ID, minting one when the
// request arrived without it.
func requestID(c echo.Context) string {
	if id := c.Request().Header.Get(headerRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}

// RequestLog logs one line per request with method, path, status, elapsed
// time, and request ID. The ID is echoed back in the response header and
// stashed in the context for handlers.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := requestID(c)
			c.Set("request_id", id)
			c.Response().Header().Set(headerRequestID, id)

			start := time.Now()
			err := next(c)

			log.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", id,
			)

			return err
		}
	}
}
