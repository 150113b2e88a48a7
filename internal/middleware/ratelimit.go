package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/repository"
)

// RateLimit throttles requests per client IP using the redis counter. The
// limiter fails open: a redis outage must not take the API down with it.
func RateLimit(state repository.StateRepository, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := state.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logrus.WithFields(logrus.Fields{"ip": c.ClientIP(), "error": err}).Warn("Rate limit check failed")
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
