package sketch

import (
	"time"

	log "github.com/golang/glog"
)

// WindowedSketch is a ring of B+1 Misra-Gries bucket sketches
// staggered in time by S = W/B. Under steady traffic, once the ring
// has filled, the oldest live bucket is between W and F = W*(B+1)/B
// old, so Query covers at least a full control window of history
// while memory stays bounded. Right after construction, or after an
// idle gap longer than F, the oldest bucket is younger than W.
type WindowedSketch[K comparable] struct {
	cfg     Config
	now     func() time.Time
	buckets []*bucketSketch[K]
}

// New validates cfg and constructs an empty WindowedSketch. The ring
// starts empty; the first Observe or Query creates the first bucket.
func New[K comparable](cfg Config) (*WindowedSketch[K], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &WindowedSketch[K]{cfg: cfg, now: time.Now}, nil
}

// maintain retires buckets older than F and appends a fresh bucket
// when the newest one has aged past S. It runs at the start of every
// public operation, and tolerates non-monotonic clock jumps: a
// backward jump leaves buckets looking younger (benign), a forward
// jump may retire several buckets in a single pass, after which at
// most one fresh bucket is appended.
func (w *WindowedSketch[K]) maintain() {
	now := w.now()
	full := w.cfg.fullWindow()
	stride := w.cfg.stride()

	for len(w.buckets) > 0 && now.Sub(w.buckets[0].CreatedAt()) > full {
		log.V(2).Infof("<sketch> retiring bucket created_at=%v age=%v", w.buckets[0].CreatedAt(), now.Sub(w.buckets[0].CreatedAt()))
		w.buckets = w.buckets[1:]
	}

	if len(w.buckets) == 0 || now.Sub(w.buckets[len(w.buckets)-1].CreatedAt()) > stride {
		w.buckets = append(w.buckets, newBucketSketch[K](now, w.cfg.BucketCapacity))
		log.V(2).Infof("<sketch> new bucket created_at=%v live=%d", now, len(w.buckets))
	}
}

// Observe records one event at now, fanning it out to every live
// bucket after ring maintenance.
func (w *WindowedSketch[K]) Observe(key K) {
	w.maintain()
	for _, b := range w.buckets {
		b.Observe(key)
	}
}

// Query runs ring maintenance and derives heavy hitters from the
// oldest live bucket. number == 0 is threshold mode; number > 0 is
// best-effort top-N without threshold filtering.
func (w *WindowedSketch[K]) Query(number int) []K {
	w.maintain()

	oldest := w.buckets[0]
	sorted := sortedByCountDesc(oldest.Snapshot())
	return extract(sorted, oldest.Total(), w.cfg.Share, w.cfg.BucketCapacity, number)
}

// liveBuckets reports how many buckets are currently in the ring,
// exposed for invariant testing.
func (w *WindowedSketch[K]) liveBuckets() int {
	return len(w.buckets)
}
