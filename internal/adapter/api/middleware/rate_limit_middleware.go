package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"esekoir/internal/infrastructure/ratelimit"
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
	"esekoir/pkg/response"
)

// RateLimit spends one token of action per request. The bucket belongs to
// the actor when there is one and to the client IP otherwise, so it must be
// installed after Optional or Authenticate.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if actor := ActorFrom(c); !actor.IsZero() {
				key = actor.Key()
			}

			ok, retryAfter := limiter.Allow(key, action)
			if !ok {
				logger.Warn("[ratelimit] %s exceeded %s", key, action)
				if retryAfter > 0 {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				}
				return response.Error(c, errors.TooManyRequests("Too many requests, slow down"))
			}

			return next(c)
		}
	}
}
