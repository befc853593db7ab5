package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SlowRequestThreshold is the duration above which a request is logged
const SlowRequestThreshold = time.Second

// RequestIDHeader carries the id assigned to each request
const RequestIDHeader = "X-Request-ID"

// MetricsMiddleware tags each request with an id, records its latency by
// route template and logs slow requests
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/metrics" || path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		startTime := time.Now()
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		wrappedWriter := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(wrappedWriter, r)

		duration := time.Since(startTime)
		route := routeTemplate(r)
		requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrappedWriter.statusCode)).Inc()
		requestDuration.WithLabelValues(route, r.Method).Observe(duration.Seconds())

		if duration > SlowRequestThreshold {
			zap.S().Warnw("Slow request detected",
				"requestId", requestID,
				"method", r.Method,
				"route", route,
				"duration", duration,
				"status", wrappedWriter.statusCode,
			)
		}
	})
}

// routeTemplate keeps metric cardinality bounded by labelling with the mux
// template instead of the raw path
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
