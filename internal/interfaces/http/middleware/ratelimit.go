// Package middleware HTTP 미들웨어
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/infrastructure/persistence/redis"
)

// RateLimiter 요청 제한기 인터페이스
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 클라이언트 IP + 경로 단위 요청 제한 미들웨어.
// 제한기 장애 시에는 통과시킨다.
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limit := cfg.RequestsPerSecond
	if limit <= 0 {
		limit = 100
	}

	return func(c *gin.Context) {
		key := redis.BuildRateLimitKey(c.ClientIP(), c.Request.URL.Path)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, time.Second)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
