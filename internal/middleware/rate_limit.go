package middleware

import (
	"net/http"
	"time"

	"arbidash/backend/internal/util"
	"arbidash/backend/pkg/redis"

	"github.com/gin-gonic/gin"
)

// RateLimit limits requests per client IP using a Redis counter with a
// one-minute window. Only wired when Redis is configured.
func RateLimit(redisClient *redis.Client, requestsPerMinute int) gin.HandlerFunc {
	window := time.Minute

	return func(c *gin.Context) {
		key := redis.RateLimitKey(c.ClientIP(), "api")

		count, err := redisClient.Incr(c.Request.Context(), key)
		if err != nil {
			// fail open when the counter is unavailable
			c.Next()
			return
		}

		if count == 1 {
			redisClient.Expire(c.Request.Context(), key, window)
		}

		if count > int64(requestsPerMinute) {
			util.AbortWithCustomError(c, http.StatusTooManyRequests,
				util.ErrCodeRateLimit, "Too many requests")
			return
		}

		c.Next()
	}
}
