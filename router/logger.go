package router

import (
	"time"

	"foodgram/controllers"
	"foodgram/logging"

	"github.com/gin-gonic/gin"
)

// Logger logs method, path, status and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logging.Ctx(c.Request.Context())
		event := log.Info()
		switch {
		case c.Writer.Status() >= 500:
			event = log.Error()
		case c.Writer.Status() >= 400:
			event = log.Warn()
		}
		if user, ok := controllers.GetUserLogged(c); ok {
			event = event.Int64("user_id", user.ID)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
