// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// IngestTotal counts ingestion runs by outcome (ok, malformed, invalid).
	IngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noder_ingest_total",
		Help: "Blueprint ingestions by outcome",
	}, []string{"outcome"})

	// DroppedConnections counts connections skipped during ingestion by reason.
	DroppedConnections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noder_ingest_dropped_connections_total",
		Help: "Connections skipped during ingestion by warning kind",
	}, []string{"kind"})

	IngestNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "noder_ingest_nodes",
		Help:    "Nodes per ingested graph",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	UpstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noder_generator_calls_total",
		Help: "Calls to the blueprint generator by result",
	}, []string{"result"})

	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "noder_generator_call_duration_seconds",
		Help:    "Generator call latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	// LLMCalls counts model completions made by the generation proxy.
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noder_llm_calls_total",
		Help: "Model completions by kind (generate, repair) and result",
	}, []string{"kind", "result"})
)

// RecordUpstreamCall records one generator round trip.
func RecordUpstreamCall(d time.Duration, err error) {
	UpstreamLatency.Observe(d.Seconds())
	if err != nil {
		UpstreamCalls.WithLabelValues("error").Inc()
		return
	}
	UpstreamCalls.WithLabelValues("ok").Inc()
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
