package store

import (
	"testing"

	"github.com/turing228/map-get-fresh-top-k/sketch"
)

func newTestStore(t *testing.T) *Store[string, string] {
	st, err := New[string, string](sketch.Config{
		Window: 1e9, Share: 0.1, Buckets: 12, BucketCapacity: 54,
	})
	if err != nil {
		panic(err)
	}
	return st
}

func TestSetThenGet(t *testing.T) {
	st := newTestStore(t)
	st.Set("key_1", "val_1")

	v, ok := st.Get("key_1")
	if !ok || v != "val_1" {
		panic("Get must return the value written by Set")
	}

	_, ok = st.Get("missing")
	if ok {
		panic("Get on a missing key must report ok=false")
	}
}

func TestGetAndSetBothRecordObservations(t *testing.T) {
	st := newTestStore(t)
	for i := 0; i < 20; i++ {
		st.Set("hot", "v")
	}
	for i := 0; i < 5; i++ {
		st.Get("hot")
	}

	found := false
	for _, k := range st.TopK(0) {
		if k == "hot" {
			found = true
		}
	}
	if !found {
		panic("a key dominating both Get and Set traffic must surface via TopK")
	}
}

func TestSetSizeRecorderFiresOnEverySet(t *testing.T) {
	st := newTestStore(t)

	var calls []string
	st.SetSizeRecorder(func(key, value string) {
		calls = append(calls, key+"="+value)
	})

	st.Set("a", "1")
	st.Get("a") // Get must not trigger the recorder, only Set does
	st.Set("b", "2")

	if len(calls) != 2 || calls[0] != "a=1" || calls[1] != "b=2" {
		panic("size recorder must fire exactly once per Set, with the stored key and value")
	}
}

func TestTopKTopNMode(t *testing.T) {
	st := newTestStore(t)
	st.Set("a", "1")
	st.Set("a", "1")
	st.Set("b", "1")

	got := st.TopK(1)
	if len(got) != 1 {
		panic("top-N mode must return exactly min(number, distinct keys)")
	}
}
