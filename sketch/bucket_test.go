package sketch

import (
	"testing"
	"time"
)

func TestBucketSketchIncrement(t *testing.T) {
	b := newBucketSketch[string](time.Now(), 3)
	b.Observe("a")
	b.Observe("a")
	b.Observe("b")

	if b.Total() != 3 {
		panic("total should count every observe call")
	}
	if b.counters["a"] != 2 || b.counters["b"] != 1 {
		panic("increment/create branch produced wrong counts")
	}
	if b.Len() != 2 {
		panic("bucket should track exactly 2 distinct keys")
	}
}

func TestBucketSketchCapacityAndZeroEviction(t *testing.T) {
	b := newBucketSketch[string](time.Now(), 2)
	b.Observe("a")
	b.Observe("b")
	if b.Len() != 2 {
		panic("bucket should be at capacity")
	}

	// decrement-all: capacity full, no zero counters, "c" is dropped
	b.Observe("c")
	if _, ok := b.counters["c"]; ok {
		panic("decrement-all branch must not insert the new key")
	}
	if b.counters["a"] != 0 || b.counters["b"] != 0 {
		panic("decrement-all should floor every counter by 1")
	}

	// now a and b are both zero; the next new key evicts the first
	// encountered zero-counter entry deterministically
	b.Observe("d")
	if _, ok := b.counters["a"]; ok {
		panic("first encountered zero-counter entry ('a') should have been evicted")
	}
	if b.counters["d"] != 1 || b.counters["b"] != 0 {
		panic("create-by-eviction branch produced wrong counts")
	}
	if b.Len() != 2 {
		panic("bucket must stay at capacity after eviction")
	}
}

func TestBucketSketchMisraGriesBound(t *testing.T) {
	// A single dominant key followed by ten distinct singletons (more
	// than capacity+1) must still be retained: its true count exceeds
	// total/(capacity+1).
	capacity := 4
	b := newBucketSketch[string](time.Now(), capacity)

	for i := 0; i < 100; i++ {
		b.Observe("hot")
	}
	for i := 0; i < 10; i++ {
		b.Observe(string(rune('a' + i)))
	}

	stored, ok := b.counters["hot"]
	if !ok {
		panic("Misra-Gries must retain a key whose frequency exceeds total/(m+1)")
	}
	if stored > 100 {
		panic("stored count can never exceed the true count")
	}
	if int64(100)-int64(b.Total())/int64(capacity+1) > int64(stored) {
		panic("stored count must be within the Misra-Gries error bound of the true count")
	}
}

func TestBucketSketchNeverNegative(t *testing.T) {
	b := newBucketSketch[string](time.Now(), 1)
	b.Observe("a")
	b.Observe("b") // decrement-all, floored at 0
	for k, c := range b.counters {
		_ = k
		if int64(c) < 0 {
			panic("counts must never go negative")
		}
	}
}
