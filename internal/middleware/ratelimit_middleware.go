package middleware

import (
	"net/http"
	"strconv"

	"apply4me/internal/redis"
	"apply4me/internal/transport/httpdto"
	"apply4me/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SubmitRateLimit throttles public form submissions per client IP. A nil
// limiter (no redis configured) disables throttling; a limiter error fails
// open so a redis outage cannot take the form down.
func SubmitRateLimit(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		result, err := limiter.AllowSubmit(c.Request.Context(), c.ClientIP())
		if err != nil {
			l.Errorf("rate limit check failed: %v", err)
			c.Next()
			return
		}
		setRateLimitHeaders(c, result)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRateLimit throttles admin authentication attempts per client IP.
func AuthRateLimit(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		result, err := limiter.AllowAuth(c.Request.Context(), c.ClientIP())
		if err != nil {
			l.Errorf("rate limit check failed: %v", err)
			c.Next()
			return
		}
		setRateLimitHeaders(c, result)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
