package dialogue

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is a prometheus.Collector exposing a Dialogues
// registry's live dialogue count and end-state histograms. It does not
// wrap the registry — it is read synchronously on each Collect, matching
// the single-threaded cooperative usage the core assumes (spec §5): there
// is no background goroutine sampling the registry.
type MetricsCollector struct {
	ds *Dialogues

	active   *prometheus.Desc
	endState *prometheus.Desc
}

// NewMetricsCollector builds a collector for ds. namespace/subsystem follow
// the usual Prometheus naming convention, e.g. namespace="agent",
// subsystem="dialogues".
func NewMetricsCollector(ds *Dialogues, namespace, subsystem string) *MetricsCollector {
	return &MetricsCollector{
		ds: ds,
		active: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "active"),
			"Number of dialogues currently tracked by the registry.",
			nil, nil,
		),
		endState: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "endstate_total"),
			"Count of dialogues that reached each end state, by initiation side.",
			[]string{"initiated_by", "end_state"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.active
	ch <- c.endState
}

// Collect implements prometheus.Collector.
func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(len(c.ds.Dialogues())))

	stats := c.ds.Stats()
	for endState, count := range stats.SelfInitiated() {
		ch <- prometheus.MustNewConstMetric(c.endState, prometheus.CounterValue, float64(count), "self", fmt.Sprint(endState))
	}
	for endState, count := range stats.OpponentInitiated() {
		ch <- prometheus.MustNewConstMetric(c.endState, prometheus.CounterValue, float64(count), "opponent", fmt.Sprint(endState))
	}
}
