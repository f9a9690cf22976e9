package api

import (
	"time"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
)

// RequestLogger returns a Gin middleware for logging HTTP requests.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		zlog.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("clientIp", c.ClientIP()).
			Msg("HTTP request")

		if len(c.Errors) > 0 {
			zlog.Error().
				Strs("errors", c.Errors.Errors()).
				Str("path", path).
				Msg("request completed with errors")
		}
	}
}
