package admin

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const requestLoggerKey = "admin.logger"

// requestLogging returns the middleware chain that tags every admin request with a
// request ID, binds a logger carrying that ID and the client address to the echo
// context, and logs the outcome once the handler returns.
func requestLogging() []echo.MiddlewareFunc {
	bind := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(requestLoggerKey, slog.Default().With(
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"client", c.RealIP(),
			))
			return next(c)
		}
	}

	outcome := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogError:   true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				requestLog(c).Error("Admin request failed", append(attrs, "error", v.Error)...)
			} else {
				requestLog(c).Debug("Admin request", attrs...)
			}
			return nil
		},
	})

	return []echo.MiddlewareFunc{middleware.RequestID(), bind, outcome}
}

// requestLog returns the logger bound to c, or the default logger when the request
// did not pass through requestLogging.
func requestLog(c echo.Context) *slog.Logger {
	if logger, ok := c.Get(requestLoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
