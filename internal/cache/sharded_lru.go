package cache

import (
	"context"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const numShards = 16

// ShardedLRU distributes blocks over independent LRU shards.
// Each shard holds an equal part of the capacity.
type ShardedLRU struct {
	shards [numShards]*LRU
}

// NewShardedLRU creates a sharded cache with a total capacity in bytes.
func NewShardedLRU(capacity int64) *ShardedLRU {
	shardCapacity := max(capacity/numShards, 1)

	s := &ShardedLRU{}
	for i := range numShards {
		s.shards[i] = NewLRU(shardCapacity)
	}
	return s
}

// Ensure ShardedLRU implements BlockCache.
var _ BlockCache = (*ShardedLRU)(nil)

func (s *ShardedLRU) shard(key Key) *LRU {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key.Block))

	d := xxhash.New()
	_, _ = d.WriteString(key.Path)
	_, _ = d.Write(buf[:])
	return s.shards[d.Sum64()%numShards]
}

// Get implements BlockCache.
func (s *ShardedLRU) Get(ctx context.Context, key Key) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

// Set implements BlockCache.
func (s *ShardedLRU) Set(ctx context.Context, key Key, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// InvalidatePath implements BlockCache.
func (s *ShardedLRU) InvalidatePath(path string) {
	for _, sh := range s.shards {
		sh.InvalidatePath(path)
	}
}

// Stats sums the statistics of all shards.
func (s *ShardedLRU) Stats() Stats {
	var total Stats
	for _, sh := range s.shards {
		st := sh.Stats()
		total.Hits += st.Hits
		total.Misses += st.Misses
		total.Entries += st.Entries
		total.Size += st.Size
	}
	return total
}

// ShardStats returns the statistics of each shard.
func (s *ShardedLRU) ShardStats() []Stats {
	out := make([]Stats, numShards)
	for i, sh := range s.shards {
		out[i] = sh.Stats()
	}
	return out
}
