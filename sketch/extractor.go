package sketch

import (
	"math"
	"sort"
)

// sortedByCountDesc sorts a bucket snapshot by count descending, the
// order the extractor requires.
func sortedByCountDesc[K comparable](entries []Entry[K]) []Entry[K] {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Threshold computes τ(N) = ⌊Nθ⌋ - ⌈N(1-θ)/m⌉ - 2, the minimum stored
// count for a key to be reported in threshold mode. The two
// subtracted terms compensate for the Misra-Gries under-count bias
// and for cross-bucket drift in the staggered window; the value may
// be negative, in which case every tracked key qualifies.
func Threshold(total uint64, share float64, capacity int) int64 {
	n := float64(total)
	return int64(math.Floor(n*share)) - int64(math.Ceil(n*(1-share)/float64(capacity))) - 2
}

// extract applies the extractor's two disjoint modes over a
// descending-by-count snapshot: number == 0 is threshold mode, number
// > 0 is top-N without threshold filtering.
func extract[K comparable](sorted []Entry[K], total uint64, share float64, capacity int, number int) []K {
	keys := make([]K, 0, len(sorted))

	if number > 0 {
		for i := 0; i < number && i < len(sorted); i++ {
			keys = append(keys, sorted[i].Key)
		}
		return keys
	}

	threshold := Threshold(total, share, capacity)
	for _, e := range sorted {
		if int64(e.Count) < threshold {
			break
		}
		keys = append(keys, e.Key)
	}
	return keys
}
