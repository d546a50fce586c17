// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the poll pipeline.
type Metrics struct {
	PollsTotal        prometheus.Counter
	BlockReadErrors   *prometheus.CounterVec
	FieldDecodeErrors *prometheus.CounterVec
	BytesRead         prometheus.Counter
	SpansPerBlock     *prometheus.GaugeVec
	ReconnectsTotal   prometheus.Counter
}

// New creates and registers all metrics with the provided registry.
func New(reg prometheus.Registerer) *Metrics {
	pollsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "s7south_polls_total",
		Help: "Total poll cycles started",
	})

	blockReadErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "s7south_block_read_errors_total",
		Help: "Span reads that failed, per data block",
	}, []string{"block"})

	fieldDecodeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "s7south_field_decode_errors_total",
		Help: "Field decodes that failed and were omitted, per data block",
	}, []string{"block"})

	bytesRead := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "s7south_bytes_read_total",
		Help: "Total bytes fetched from the device",
	})

	spansPerBlock := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "s7south_spans_per_block",
		Help: "Coalesced spans fetched per poll for each data block",
	}, []string{"block"})

	reconnectsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "s7south_reconnects_total",
		Help: "Times the device connection was re-established",
	})

	reg.MustRegister(pollsTotal, blockReadErrors, fieldDecodeErrors,
		bytesRead, spansPerBlock, reconnectsTotal)

	return &Metrics{
		PollsTotal:        pollsTotal,
		BlockReadErrors:   blockReadErrors,
		FieldDecodeErrors: fieldDecodeErrors,
		BytesRead:         bytesRead,
		SpansPerBlock:     spansPerBlock,
		ReconnectsTotal:   reconnectsTotal,
	}
}
