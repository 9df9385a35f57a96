package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pca-portal/backend/pkg/redis"
	"pca-portal/backend/pkg/response"
)

const msgRateLimited = "Muitas tentativas. Aguarde um momento e tente novamente."

// RateLimit throttles the unauthenticated auth endpoints per route and client
// IP on a Redis sliding window. A nil client, a non-positive limit or a Redis
// error lets the request through; login never depends on the cache.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(retryAfterSeconds(window))

	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), rateLimitKey(c), limit, window)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", retryAfter)
			response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, msgRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}

// rateLimitKey route template and client IP; a recovery token never becomes part of a key
func rateLimitKey(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return route + "|" + c.ClientIP()
}

// retryAfterSeconds whole seconds, at least one
func retryAfterSeconds(window time.Duration) int {
	s := int((window + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
