package sketch

import "testing"

func TestThresholdFormula(t *testing.T) {
	// τ(N) = floor(N*θ) - ceil(N*(1-θ)/m) - 2
	got := Threshold(1000, 0.1, 54)
	want := int64(100 - 17 - 2) // floor(100) - ceil(900/54=16.67->17) - 2
	if got != want {
		panic("threshold formula mismatch")
	}
}

func TestExtractThresholdMode(t *testing.T) {
	entries := []Entry[string]{
		{Key: "hot", Count: 500},
		{Key: "warm", Count: 60},
		{Key: "cold", Count: 5},
	}
	got := extract(sortedByCountDesc(entries), 1000, 0.1, 54, 0)
	if len(got) != 1 || got[0] != "hot" {
		panic("threshold mode should only report the key clearing τ(N)")
	}
}

func TestExtractTopNModeIgnoresThreshold(t *testing.T) {
	entries := []Entry[string]{
		{Key: "a", Count: 3},
		{Key: "b", Count: 2},
		{Key: "c", Count: 1},
	}
	got := extract(sortedByCountDesc(entries), 1000, 0.1, 54, 2)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		panic("top-N mode must return the first N by count, unfiltered")
	}

	got = extract(sortedByCountDesc(entries), 1000, 0.1, 54, 100)
	if len(got) != 3 {
		panic("top-N mode must cap at min(number, len(list))")
	}
}

func TestExtractEmptyBucket(t *testing.T) {
	got := extract(sortedByCountDesc[string](nil), 0, 0.1, 54, 0)
	if len(got) != 0 {
		panic("empty bucket must yield an empty result")
	}
}
