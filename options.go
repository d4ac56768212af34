package lexgo

import (
	"log/slog"

	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/internal/compress"
)

// Compression selects how segment bodies are compressed on Commit.
type Compression = compress.Type

// Supported segment compressions.
const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

type options struct {
	codec                 codec.Codec
	compression           Compression
	metricsCollector      MetricsCollector
	logger                *Logger
	maxConcurrentSearches int64
	ioLimitBytesPerSec    int64
	blockCacheBytes       int64
}

// Option configures Open.
type Option func(*options)

// WithCodec configures the codec used to write manifests.
// Existing manifests are read with the codec named in their path.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the compression of committed segments.
// The default is CompressionLZ4.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &lexgo.BasicMetricsCollector{}
//	db, _ := lexgo.Open(ctx, store, lexgo.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := lexgo.NewJSONLogger(slog.LevelInfo)
//	db, _ := lexgo.Open(ctx, store, lexgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMaxConcurrentSearches bounds the number of searches running at once.
// Further searches wait for a free slot. Zero means unlimited.
func WithMaxConcurrentSearches(n int) Option {
	return func(o *options) {
		o.maxConcurrentSearches = int64(n)
	}
}

// WithIOLimit limits blob store reads and writes to bytesPerSec.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimitBytesPerSec = bytesPerSec
	}
}

// WithBlockCache caches blob reads in memory, up to capacityBytes.
// Useful with remote stores, where every read is a round trip.
func WithBlockCache(capacityBytes int64) Option {
	return func(o *options) {
		o.blockCacheBytes = capacityBytes
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      CompressionLZ4,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
