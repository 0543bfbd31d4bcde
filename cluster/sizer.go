package cluster

import (
	"math/rand"
	"sync"
	"time"

	"github.com/dghubble/trie"
)

// ValueSizer is an optional per-key byte-size index used only to
// break ties when the Aggregator merges cross-shard rank scores of
// equal weight; it never feeds back into WindowedSketch's own
// threshold math. A single trie under one mutex is used: Record is
// called from the store's single writer (on every Set, when wired as
// its size hook), and Size is read only on the cross-shard
// aggregation tick.
type ValueSizer struct {
	mu       sync.RWMutex
	minBytes uint64
	trie     *trie.RuneTrie
}

type sizeEntry struct {
	bytes   uint64
	exptime int64
}

// NewValueSizer starts a background sweep that evicts expired
// entries every sweepInterval, staggered by a random initial delay so
// many shards' sweepers don't wake in lockstep.
func NewValueSizer(minBytes uint64, sweepInterval time.Duration) *ValueSizer {
	sizer := &ValueSizer{minBytes: minBytes, trie: trie.NewRuneTrie()}

	go func() {
		time.Sleep(time.Duration(rand.Int63n(int64(sweepInterval) + 1)))
		ticker := time.NewTicker(sweepInterval)
		for range ticker.C {
			sizer.sweep()
		}
	}()

	return sizer
}

// Record stores the byte size of a key's value, with exptime as a
// Unix timestamp (0 meaning "never expires").
func (s *ValueSizer) Record(key string, bytes uint64, exptime int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trie.Put(key, &sizeEntry{bytes: bytes, exptime: exptime})
}

// Forget removes the sizes for the given keys.
func (s *ValueSizer) Forget(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.trie.Delete(k)
	}
}

// Size returns the recorded byte size for key, or minBytes if unknown
// or expired.
func (s *ValueSizer) Size(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v := s.trie.Get(key); v != nil {
		if entry, ok := v.(*sizeEntry); ok && (entry.exptime == 0 || entry.exptime > time.Now().Unix()) {
			return entry.bytes
		}
	}
	return s.minBytes
}

func (s *ValueSizer) sweep() {
	now := time.Now().Unix()
	expired := make([]string, 0)

	s.mu.RLock()
	s.trie.Walk(func(key string, val interface{}) error {
		if entry, ok := val.(*sizeEntry); ok && entry.exptime > 0 && entry.exptime <= now {
			expired = append(expired, key)
		}
		return nil
	})
	s.mu.RUnlock()

	s.Forget(expired...)
}
