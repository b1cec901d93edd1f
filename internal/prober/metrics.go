package prober

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what a probe run did. Each run owns its registry so the
// values can be written out as a textfile once the run ends.
type Metrics struct {
	registry *prometheus.Registry

	probesTotal     prometheus.Counter
	emptyTotal      prometheus.Counter
	outputBytes     prometheus.Counter
	probeDuration   prometheus.Histogram
	throttleSeconds prometheus.Counter
	lastRunTime     prometheus.Gauge
}

func NewMetrics(target string) *Metrics {
	labels := prometheus.Labels{"target": target}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		probesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pingprobe_probes_total",
			Help:        "Number of probes completed",
			ConstLabels: labels,
		}),
		emptyTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pingprobe_empty_probes_total",
			Help:        "Number of probes that produced no output",
			ConstLabels: labels,
		}),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pingprobe_output_bytes_total",
			Help:        "Bytes of probe output appended to the capture file",
			ConstLabels: labels,
		}),
		probeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "pingprobe_probe_duration_seconds",
			Help:        "Wall-clock duration of each probe including the file write",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		throttleSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pingprobe_throttle_seconds_total",
			Help:        "Time spent sleeping to honour the rate limit",
			ConstLabels: labels,
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "pingprobe_last_run_timestamp_seconds",
			Help:        "Unix time the run finished",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(
		m.probesTotal,
		m.emptyTotal,
		m.outputBytes,
		m.probeDuration,
		m.throttleSeconds,
		m.lastRunTime,
	)
	return m
}

func (m *Metrics) observeProbe(outputLen int, elapsed time.Duration) {
	m.probesTotal.Inc()
	if outputLen == 0 {
		m.emptyTotal.Inc()
	}
	m.outputBytes.Add(float64(outputLen))
	m.probeDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeThrottle(d time.Duration) {
	m.throttleSeconds.Add(d.Seconds())
}

func (m *Metrics) finish(t time.Time) {
	m.lastRunTime.Set(float64(t.Unix()))
}

// WriteTextfile writes the current values in node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
