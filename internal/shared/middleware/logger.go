package middleware

import (
	"bytes"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Info().
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency_ms", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP Request")
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// LogResponse logs every JSON response body at debug level.
func LogResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		if zerolog.GlobalLevel() > zerolog.DebugLevel {
			c.Next()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		if !strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") || rec.body.Len() == 0 {
			return
		}
		log.Debug().
			Str("request_id", c.GetString(requestIDKey)).
			Int("status", c.Writer.Status()).
			RawJSON("body", rec.body.Bytes()).
			Msg("HTTP Response")
	}
}
