package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects counters and gauges for both engines behind one
// prometheus.Registerer, so neither engine imports client_golang directly.
// The CLI subcommands register them on a fresh per-run registry; the
// `pulse serve-metrics` subcommand does not register or expose them.
type Metrics struct {
	ProbesSent     prometheus.Counter
	ProbesReceived prometheus.Counter
	ProbeRTT       prometheus.Histogram

	SegmentTimeouts prometheus.Counter
	DuplicateAcks   prometheus.Counter
	DuplicateData   prometheus.Counter
	SendWindowBytes prometheus.Gauge
}

// NewMetrics registers every collector against reg and returns the handles.
// Passing a fresh prometheus.NewRegistry() keeps test runs from colliding on
// the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProbesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulse_probes_sent_total",
			Help: "ICMP echo requests transmitted across all ping/traceroute sessions.",
		}),
		ProbesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulse_probes_received_total",
			Help: "ICMP replies received across all ping/traceroute sessions.",
		}),
		ProbeRTT: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulse_rtt_seconds",
			Help:    "Round-trip time of successful ICMP probes.",
			Buckets: prometheus.DefBuckets,
		}),
		SegmentTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdt_segment_timeouts_total",
			Help: "RDT data segments retransmitted after their per-segment timer expired.",
		}),
		DuplicateAcks: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdt_duplicate_acks_total",
			Help: "ACKs received for a sequence number no longer outstanding.",
		}),
		DuplicateData: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdt_duplicate_data_total",
			Help: "Data segments received that were already buffered or delivered.",
		}),
		SendWindowBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rdt_send_window_bytes",
			Help: "Bytes currently in flight between sendBase and nextSeqNum.",
		}),
	}
}
