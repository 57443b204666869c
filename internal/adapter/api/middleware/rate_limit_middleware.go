package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"reuseu/internal/infrastructure/ratelimit"
	"reuseu/pkg/errors"
	"reuseu/pkg/response"
)

// RateLimit throttles requests per client IP.
func RateLimit(limiter *ratelimit.RateLimiter, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, wait := limiter.Allow(ip)
			if !ok {
				log.Warn("rate limit exceeded", zap.String("ip", ip), zap.Duration("retry_after", wait))
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
