package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLogger writes one access-log line per request through the
// request-scoped logger, so the line carries the id set by RequestID.
//
// Server errors log at error level, client errors at warn, the rest at info.
//
// Example log output:
//
//	{"request_id":"123e4567-...","method":"GET","route":"/price/:productId","path":"/price/42","status":200,"latency_ms":3}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		log := logger.Ctx(c.Request.Context())

		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
