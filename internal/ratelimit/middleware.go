package ratelimit

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallbiznis/storefront/internal/observability/logger"
	"github.com/smallbiznis/storefront/internal/observability/metrics"
)

// GinMiddleware throttles a route by client IP. Limiter failures fail
// open: a broken Redis must not take the storefront down with it.
func GinMiddleware(limiter *QuoteLimiter, m *metrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := c.FullPath()

		res, err := limiter.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.WithContext(ctx, log).Warn("rate limiter unavailable, allowing request",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !res.Allowed {
			m.RecordRateLimitDenied(ctx, endpoint, "bucket_empty")
			if res.RetryAfter > 0 {
				c.Header("Retry-After", fmt.Sprintf("%.0f", res.RetryAfter.Seconds()))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "too many requests, slow down",
			})
			return
		}

		m.RecordRateLimitAllowed(ctx, endpoint)
		c.Next()
	}
}
