package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Truthtechno/LockerRoom-sub000/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimitConfig controls when the limiter is active. Outside production the
// limiter is bypassed unless Enabled opts in, so local development traffic is
// never throttled.
type RateLimitConfig struct {
	Production bool
	Enabled    bool
}

// RateLimit guards routes with the given limiter. Allowed responses carry
// X-RateLimit-* headers; throttled requests get a 429 with a structured body
// and never reach the downstream handler.
func RateLimit(limiter *ratelimit.Limiter, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Production && !cfg.Enabled {
			c.Next()
			return
		}

		addr := clientAddr(c)
		res := limiter.Allow(c.Request.Context(), addr, c.Request.URL.Path)

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", res.Reset.UTC().Format(time.RFC3339))

		if !res.Allowed {
			if res.FromFallback {
				c.Header("Retry-After", strconv.Itoa(res.RetryAfter))
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":       "rate_limit_exceeded",
					"message":    "Too many requests, please try again later",
					"retryAfter": res.RetryAfter,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// clientAddr resolves a best-effort client address. Unattributable clients
// share one "unknown" bucket rather than escaping the limiter.
func clientAddr(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil && host != "" {
		return host
	}
	if c.Request.RemoteAddr != "" {
		return c.Request.RemoteAddr
	}
	return "unknown"
}
