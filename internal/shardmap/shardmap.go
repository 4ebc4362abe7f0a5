// Package shardmap provides a sharded string-keyed map for low-contention
// concurrent get-or-build access.
package shardmap

import (
	"hash/fnv"
	"sync"
)

// Map distributes keys across independently locked shards based on key hash.
// With one shard it degenerates to a single mutex-guarded map. The zero value
// is not usable; call New.
type Map struct {
	shards []*shard
}

type shard struct {
	mu sync.RWMutex
	m  map[string]any
}

// New returns a Map with n shards. Values outside 1..256 are clamped.
func New(n int) *Map {
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{m: make(map[string]any)}
	}
	return &Map{shards: shards}
}

// shardFor picks the shard for a key via FNV-1a.
func (m *Map) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return m.shards[h.Sum32()%uint32(len(m.shards))]
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

// Store sets the value for key, replacing any existing value.
func (m *Map) Store(key string, v any) {
	s := m.shardFor(key)
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
}

// GetOrBuild returns the value for key, calling build on a miss and storing
// the result. build runs outside the shard lock, so two goroutines racing on
// the same key may both build; the build must be idempotent and the last
// stored value wins. Nothing is stored when build fails.
func (m *Map) GetOrBuild(key string, build func() (any, error)) (any, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		return nil, err
	}
	m.Store(key, v)
	return v, nil
}

// Len returns the total number of stored keys across all shards.
func (m *Map) Len() int {
	total := 0
	for _, s := range m.shards {
		s.mu.RLock()
		total += len(s.m)
		s.mu.RUnlock()
	}
	return total
}
