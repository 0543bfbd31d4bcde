// Package store provides the keyed store façade: an ordinary
// dictionary that forwards every get/set key to a windowed
// frequency-estimation sketch, so upstream callers can ask which keys
// are currently heavy hitters without touching the sketch directly.
package store

import (
	log "github.com/golang/glog"

	"github.com/turing228/map-get-fresh-top-k/sketch"
)

// Store is the keyed store façade. It owns an ordinary map plus a
// WindowedSketch; Get/Set record exactly one observation each, and
// TopK delegates to the sketch's Query. A sketch-internal failure
// never cancels a store operation.
//
// Store is single-writer, matching the sketch's own concurrency
// contract: callers needing concurrent access must wrap it in a mutex
// or shard by key.
type Store[K comparable, V any] struct {
	data         map[K]V
	sketch       *sketch.WindowedSketch[K]
	sizeRecorder func(key K, value V)
}

// New constructs a Store from a sketch.Config. It returns a
// configuration error unconditionally and constructs no store when
// one occurs.
func New[K comparable, V any](cfg sketch.Config) (*Store[K, V], error) {
	s, err := sketch.New[K](cfg)
	if err != nil {
		return nil, err
	}
	return &Store[K, V]{
		data:   make(map[K]V),
		sketch: s,
	}, nil
}

// SetSizeRecorder installs an optional hook invoked on every Set with
// the key and value just stored, letting an external index (such as
// cluster.ValueSizer) track approximate value sizes without Store
// depending on it directly. A nil hook (the default) disables this.
func (st *Store[K, V]) SetSizeRecorder(f func(key K, value V)) {
	st.sizeRecorder = f
}

// Set inserts or overwrites the mapping for key and records one
// observation.
func (st *Store[K, V]) Set(key K, value V) {
	st.data[key] = value
	st.observe(key)
	if st.sizeRecorder != nil {
		st.sizeRecorder(key, value)
	}
	storeOpsTotal.WithLabelValues("set").Inc()
}

// Get returns the current value for key (or the zero value and false)
// and records one observation.
func (st *Store[K, V]) Get(key K) (V, bool) {
	v, ok := st.data[key]
	st.observe(key)
	storeOpsTotal.WithLabelValues("get").Inc()
	return v, ok
}

// TopK returns the heavy hitters (number == 0, threshold mode) or the
// top-number keys by count (number > 0, best-effort ranking). On any
// sketch-internal failure it returns an empty slice rather than
// failing the caller.
func (st *Store[K, V]) TopK(number int) (keys []K) {
	timer := newTopKTimer()
	defer timer.observeDuration()

	defer func() {
		if r := recover(); r != nil {
			log.Warningf("<store> topk query failed, returning empty: %v", r)
			keys = []K{}
		}
	}()
	return st.sketch.Query(number)
}

// observe forwards key to the sketch, swallowing any sketch-internal
// panic so the calling Get/Set is never cancelled by it.
func (st *Store[K, V]) observe(key K) {
	defer func() {
		if r := recover(); r != nil {
			log.Warningf("<store> observe failed, swallowing: %v", r)
		}
	}()
	st.sketch.Observe(key)
}
