package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout bounds the request context. Routes ending in /stream serve
// server-sent events and are left alone, they live until the client
// disconnects.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isStream(c) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func isStream(c *gin.Context) bool {
	return strings.HasSuffix(c.Request.URL.Path, "/stream")
}
