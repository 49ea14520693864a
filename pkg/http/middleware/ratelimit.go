package middleware

import (
	"net/http"

	"SignalDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a request from key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit rejects requests with 429 once the client's bucket is empty.
// Clients are keyed by their real IP.
func RateLimit(a Allower, l *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if a.Allow(ip) {
				return next(c)
			}
			l.Debug("rate limited", logger.String("ip", ip), logger.String("path", c.Path()))
			c.Response().Header().Set("Retry-After", "1")
			return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
				"status":  http.StatusTooManyRequests,
				"message": "Too Many Requests",
			})
		}
	}
}
