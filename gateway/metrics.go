package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Remote calls made to the backend by function and outcome.",
		},
		[]string{"function", "outcome"},
	)

	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dashboard",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Latency of remote calls made to the backend.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"function"},
	)
)

func observeCall(function string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	callsTotal.WithLabelValues(function, outcome).Inc()
	callDuration.WithLabelValues(function).Observe(seconds)
}
