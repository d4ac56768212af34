// Package cache provides byte-capacity LRU caching for immutable blob blocks.
//
// LRU is a single-mutex cache. ShardedLRU spreads keys over independent LRU
// shards by the xxhash of the key, so concurrent readers of different blocks
// rarely contend.
package cache
