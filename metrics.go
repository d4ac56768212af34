package lexgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
// The metrics/prometheus package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordAdd is called after each add operation.
	RecordAdd(duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordSearch is called after each search operation.
	// k is the number of results requested, results the number returned.
	RecordSearch(k, results int, duration time.Duration, err error)

	// RecordCommit is called after each commit.
	// bytes is the size of the written segment, zero if nothing was written.
	RecordCommit(bytes int, duration time.Duration, err error)

	// RecordFilterWarm is called after each WarmFilters call.
	RecordFilterWarm(filters int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)              {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)           {}
func (NoopMetricsCollector) RecordSearch(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCommit(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordFilterWarm(int, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount          atomic.Int64
	AddErrors         atomic.Int64
	DeleteCount       atomic.Int64
	DeleteErrors      atomic.Int64
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchResults     atomic.Int64
	SearchTotalNanos  atomic.Int64
	CommitCount       atomic.Int64
	CommitErrors      atomic.Int64
	CommitBytes       atomic.Int64
	FilterWarmCount   atomic.Int64
	FilterWarmErrors  atomic.Int64
	FilterWarmFilters atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(_ time.Duration, err error) {
	b.AddCount.Add(1)
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(_ time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_, results int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchResults.Add(int64(results))
}

// RecordCommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommit(bytes int, _ time.Duration, err error) {
	b.CommitCount.Add(1)
	if err != nil {
		b.CommitErrors.Add(1)
		return
	}
	b.CommitBytes.Add(int64(bytes))
}

// RecordFilterWarm implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilterWarm(filters int, _ time.Duration, err error) {
	b.FilterWarmCount.Add(1)
	b.FilterWarmFilters.Add(int64(filters))
	if err != nil {
		b.FilterWarmErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:        b.AddCount.Load(),
		AddErrors:       b.AddErrors.Load(),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
		SearchCount:     b.SearchCount.Load(),
		SearchErrors:    b.SearchErrors.Load(),
		SearchResults:   b.SearchResults.Load(),
		SearchAvgNanos:  b.getAvgSearchNanos(),
		CommitCount:     b.CommitCount.Load(),
		CommitErrors:    b.CommitErrors.Load(),
		CommitBytes:     b.CommitBytes.Load(),
		FilterWarmCount: b.FilterWarmCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount        int64
	AddErrors       int64
	DeleteCount     int64
	DeleteErrors    int64
	SearchCount     int64
	SearchErrors    int64
	SearchResults   int64
	SearchAvgNanos  int64
	CommitCount     int64
	CommitErrors    int64
	CommitBytes     int64
	FilterWarmCount int64
}
