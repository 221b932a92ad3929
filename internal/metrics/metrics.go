// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "dues"

var (
	// RPCRequests counts finished RPCs by procedure and Connect code ("ok" on success).
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Finished RPCs by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// SettlementsGenerated observes how many transfers each simplification produced.
	SettlementsGenerated = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlements_generated",
		Help:      "Number of settlements produced per debt simplification.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	})

	SimplifyErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simplify_errors_total",
		Help:      "Failed debt simplifications by reason.",
	}, []string{"reason"})
)

// NewRegistry returns a registry holding the runtime collectors and every
// dues collector.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RPCRequests,
		RPCDuration,
		SettlementsGenerated,
		SimplifyErrors,
	)
	return reg
}
