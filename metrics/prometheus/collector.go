package prometheus

import (
	"time"

	"github.com/hupe1980/lexgo"
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "lexgo"

// Collector implements lexgo.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency     *prom.HistogramVec
	ops           *prom.CounterVec
	searchResults prom.Histogram
	commitBytes   prom.Counter
	filtersWarmed prom.Counter
}

// Ensure Collector implements lexgo.MetricsCollector.
var _ lexgo.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prom.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of database operations.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op", "status"}),
		ops: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total database operations by operation and status.",
		}, []string{"op", "status"}),
		searchResults: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results_count",
			Help:      "Number of results returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		commitBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "commit_bytes_total",
			Help:      "Total segment bytes written by commits.",
		}),
		filtersWarmed: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "filters_warmed_total",
			Help:      "Total filters passed to WarmFilters.",
		}),
	}

	for _, m := range []prom.Collector{c.opLatency, c.ops, c.searchResults, c.commitBytes, c.filtersWarmed} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}

// RecordAdd implements lexgo.MetricsCollector.
func (c *Collector) RecordAdd(d time.Duration, err error) {
	c.observe("add", d, err)
}

// RecordDelete implements lexgo.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, err error) {
	c.observe("delete", d, err)
}

// RecordSearch implements lexgo.MetricsCollector.
func (c *Collector) RecordSearch(_, results int, d time.Duration, err error) {
	c.observe("search", d, err)
	if err == nil {
		c.searchResults.Observe(float64(results))
	}
}

// RecordCommit implements lexgo.MetricsCollector.
func (c *Collector) RecordCommit(bytes int, d time.Duration, err error) {
	c.observe("commit", d, err)
	if err == nil {
		c.commitBytes.Add(float64(bytes))
	}
}

// RecordFilterWarm implements lexgo.MetricsCollector.
func (c *Collector) RecordFilterWarm(filters int, d time.Duration, err error) {
	c.observe("filter_warm", d, err)
	c.filtersWarmed.Add(float64(filters))
}
