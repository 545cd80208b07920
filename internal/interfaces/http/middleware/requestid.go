// Package middleware HTTP 미들웨어
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"insu-copy-ai-api/pkg/logger"
)

// RequestIDHeader 요청 ID 헤더
const RequestIDHeader = "X-Request-ID"

// RequestID 요청 ID 주입 미들웨어
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)

		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
