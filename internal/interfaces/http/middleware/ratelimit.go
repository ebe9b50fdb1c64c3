package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubgate/clubgate/internal/infrastructure/ratelimit"
	"github.com/clubgate/clubgate/internal/shared/utils"
)

// IPRateLimit limits requests per client IP. A limiter failure fails open:
// blocking every webhook because redis is down costs more than letting a
// burst through.
func IPRateLimit(limiter ratelimit.RateLimiter, cfg ratelimit.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow("ip:"+c.ClientIP(), cfg)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
