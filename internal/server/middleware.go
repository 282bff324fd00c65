package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/atikulmunna/logdash/internal/client"
	"github.com/atikulmunna/logdash/internal/dashboard"
	"github.com/atikulmunna/logdash/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// observe tags each request with an id and records its log line and metrics.
func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := c.Writer.Status()

		metrics.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPLatency.WithLabelValues(method, path).Observe(elapsed.Seconds())

		attrs := []any{
			"request_id", id,
			"method", method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("http request", attrs...)
		case path == "/metrics" || path == "/healthz":
			slog.Debug("http request", attrs...)
		default:
			slog.Info("http request", attrs...)
		}
	}
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	var nerr *client.NetworkError
	switch {
	case errors.Is(err, dashboard.ErrValidation):
		return http.StatusBadRequest
	case errors.As(err, &nerr) && nerr.NotFound():
		return http.StatusNotFound
	case errors.Is(err, client.ErrNetwork):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusOf(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
