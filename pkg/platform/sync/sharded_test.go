package sync

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedMutex_LockUnlock(t *testing.T) {
	m := NewShardedMutex(0)
	assert.Len(t, m.shards, DefaultShards)

	m.Lock("session-1")
	m.Unlock("session-1")

	m.Lock("")
	m.Unlock("")
}

func TestShardedMutex_SameKeySerializes(t *testing.T) {
	m := NewShardedMutex(4)
	counter := 0
	var wg sync.WaitGroup

	for range 100 {
		wg.Go(func() {
			m.With("same-session", func() {
				counter++
			})
		})
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestShardedMutex_ShardDistribution(t *testing.T) {
	m := NewShardedMutex(DefaultShards)

	shards := make(map[int]bool)
	keys := []string{
		"1c6f1f7e-5d5c-4a8e-9d0a-0c6e3f1b2a11",
		"8e2d4b90-77b1-4bd4-a6c0-3b1f0f6f9e42",
		"f0a3c2d1-1e2f-4a5b-8c9d-0e1f2a3b4c5d",
		"5b9e7c61-2a4d-4f3e-b1c0-d9e8f7a6b5c4",
		"a7d6c5b4-3e2f-4a1b-9c8d-7e6f5a4b3c2d",
		"0f1e2d3c-4b5a-4968-8776-655443322110",
	}
	for _, key := range keys {
		idx := m.shardFor(key)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, DefaultShards)
		shards[idx] = true
	}

	assert.GreaterOrEqual(t, len(shards), 3, "expected keys to distribute across multiple shards")
	assert.Equal(t, m.shardFor(keys[0]), m.shardFor(keys[0]))
	assert.Equal(t, 0, m.shardFor(""))
}

func TestWithResult(t *testing.T) {
	m := NewShardedMutex(2)

	n, err := WithResult(m, "k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	boom := errors.New("boom")
	_, err = WithResult(m, "k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	// The lock is released after an error.
	m.With("k", func() {})
}
