package lexgo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	boom := errors.New("boom")

	m.RecordAdd(time.Millisecond, nil)
	m.RecordAdd(time.Millisecond, boom)
	m.RecordDelete(time.Millisecond, nil)
	m.RecordSearch(10, 4, 2*time.Millisecond, nil)
	m.RecordSearch(10, 0, 4*time.Millisecond, boom)
	m.RecordCommit(512, time.Millisecond, nil)
	m.RecordCommit(0, time.Millisecond, boom)
	m.RecordFilterWarm(3, time.Millisecond, nil)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.AddCount)
	assert.Equal(t, int64(1), stats.AddErrors)
	assert.Equal(t, int64(1), stats.DeleteCount)
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Equal(t, int64(1), stats.SearchErrors)
	assert.Equal(t, int64(4), stats.SearchResults)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.SearchAvgNanos)
	assert.Equal(t, int64(2), stats.CommitCount)
	assert.Equal(t, int64(1), stats.CommitErrors)
	assert.Equal(t, int64(512), stats.CommitBytes)
	assert.Equal(t, int64(1), stats.FilterWarmCount)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	m := &BasicMetricsCollector{}
	assert.Equal(t, BasicMetricsStats{}, m.GetStats())
}

func TestNoopMetricsCollector(t *testing.T) {
	var m MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		m.RecordAdd(0, nil)
		m.RecordDelete(0, nil)
		m.RecordSearch(1, 0, 0, nil)
		m.RecordCommit(0, 0, nil)
		m.RecordFilterWarm(0, 0, nil)
	})
}
