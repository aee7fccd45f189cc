// Package middleware holds the echo middleware of the admin API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP to perSecond, with bursts of the same size.
// Denied requests get a 429 with a JSON error body.
func RateLimiter(perSecond uint32) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(perSecond)),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			slog.Warn("Admin request rate limited",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID), "client", identifier, "path", c.Path())
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "too many requests, please try again later",
				"type":  "rate_limited",
			})
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
