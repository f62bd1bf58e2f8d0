// Package sync provides keyed locking for per-session state.
package sync

import (
	"hash/fnv"
	"sync"
)

// DefaultShards is the shard count used by NewShardedMutex.
const DefaultShards = 32

// ShardedMutex serializes work per key. Keys are spread over a fixed set of
// mutexes, so two keys may share a shard; callers must never hold the lock of
// one key while acquiring another.
type ShardedMutex struct {
	shards []sync.Mutex
}

// NewShardedMutex returns a mutex with n shards, DefaultShards when n <= 0.
func NewShardedMutex(n int) *ShardedMutex {
	if n <= 0 {
		n = DefaultShards
	}
	return &ShardedMutex{shards: make([]sync.Mutex, n)}
}

func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

// With runs fn while holding the lock of key.
func (m *ShardedMutex) With(key string, fn func()) {
	m.Lock(key)
	defer m.Unlock(key)
	fn()
}

// WithResult runs fn while holding the lock of key and returns its result.
func WithResult[T any](m *ShardedMutex, key string, fn func() (T, error)) (T, error) {
	m.Lock(key)
	defer m.Unlock(key)
	return fn()
}

// shardFor maps key to a shard; the empty key uses shard 0.
func (m *ShardedMutex) shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.shards)))
}
