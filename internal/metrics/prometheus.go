package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/wavsplit"
)

// Metrics contains all Prometheus metrics of a split run. It implements
// wavsplit.Observer.
type Metrics struct {
	registry *prometheus.Registry

	PacketsTotal  prometheus.Counter
	StreamSeconds prometheus.Gauge

	ChunksPlanned  prometheus.Counter
	ChunksWritten  prometheus.Counter
	BytesWritten   prometheus.Counter
	ChunkDuration  prometheus.Histogram
	ChunkPackets   prometheus.Histogram
	LastChunkIndex prometheus.Gauge
}

// NewMetrics creates all metrics on a dedicated registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		PacketsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "wavsplit_packets_read_total",
			Help: "Total number of packets read from the input",
		}),
		StreamSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavsplit_stream_duration_seconds",
			Help: "Duration of the input stream",
		}),

		ChunksPlanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "wavsplit_chunks_planned_total",
			Help: "Total number of chunks planned",
		}),
		ChunksWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "wavsplit_chunks_written_total",
			Help: "Total number of chunk files written",
		}),
		BytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "wavsplit_bytes_written_total",
			Help: "Total number of bytes written, headers included",
		}),
		ChunkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wavsplit_chunk_duration_seconds",
			Help:    "Duration of planned chunks",
			Buckets: []float64{1, 10, 30, 60, 300, 600, 1800, 3600},
		}),
		ChunkPackets: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wavsplit_chunk_packets",
			Help:    "Number of packets per planned chunk",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		LastChunkIndex: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavsplit_last_chunk_written",
			Help: "1-based index of the last chunk file written",
		}),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// PacketsRead implements wavsplit.Observer.
func (m *Metrics) PacketsRead(packets int, total time.Duration) {
	m.PacketsTotal.Add(float64(packets))
	m.StreamSeconds.Set(total.Seconds())
}

// ChunkPlanned implements wavsplit.Observer.
func (m *Metrics) ChunkPlanned(c wavsplit.ChunkDescriptor) {
	m.ChunksPlanned.Inc()
	m.ChunkDuration.Observe(c.Duration().Seconds())
	m.ChunkPackets.Observe(float64(c.NumPackets()))
}

// ChunkWritten implements wavsplit.Observer.
func (m *Metrics) ChunkWritten(c wavsplit.ChunkDescriptor, _ string, bytes int64) {
	m.ChunksWritten.Inc()
	m.BytesWritten.Add(float64(bytes))
	m.LastChunkIndex.Set(float64(c.Index + 1))
}

// WriteTextfile dumps the metrics in the Prometheus text format, ready for a
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
