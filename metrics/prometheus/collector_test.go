package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/blobstore"
	"github.com/hupe1980/lexgo/model"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Record(t *testing.T) {
	reg := prom.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	boom := errors.New("boom")
	c.RecordAdd(time.Millisecond, nil)
	c.RecordAdd(time.Millisecond, nil)
	c.RecordDelete(time.Millisecond, boom)
	c.RecordSearch(10, 3, time.Millisecond, nil)
	c.RecordSearch(10, 0, time.Millisecond, boom)
	c.RecordCommit(256, time.Millisecond, nil)
	c.RecordFilterWarm(4, time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ops.WithLabelValues("add", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("delete", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("search", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("search", "error")))
	assert.Equal(t, 256.0, testutil.ToFloat64(c.commitBytes))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.filtersWarmed))

	// One histogram series per op and status seen.
	assert.Equal(t, 6, testutil.CollectAndCount(c.opLatency))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prom.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	var are prom.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}

func TestCollector_WithDB(t *testing.T) {
	reg := prom.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	db, err := lexgo.Open(t.Context(), blobstore.NewMemoryStore(), lexgo.WithMetricsCollector(c))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Add(t.Context(), model.NewDocument(1, "body", "hello metrics")))
	require.NoError(t, db.Commit(t.Context()))

	res, err := db.Search(t.Context(), lexgo.SearchRequest{Text: "hello", K: 5})
	require.NoError(t, err)
	require.Len(t, res, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("add", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("commit", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("search", "success")))
	assert.Positive(t, testutil.ToFloat64(c.commitBytes))
}
