package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ClientIP derives the limiter identifier from proxy headers: first
// X-Forwarded-For value, else X-Real-IP, else a loopback fallback.
// The limiter itself treats the result as an opaque string.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "127.0.0.1"
}

// Middleware enforces a budget of maxRequests per window for each client on
// the routes it is attached to.
func Middleware(l *Limiter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		deny := l.Check(ClientIP(c.Request), maxRequests, window)
		if deny != nil {
			for k, v := range deny.Headers {
				c.Header(k, v)
			}
			c.AbortWithStatusJSON(deny.Status, deny.Body())
			return
		}
		c.Next()
	}
}
