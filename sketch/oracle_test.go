package sketch

import (
	"sort"
	"time"
)

// exactOracle is an exact reference implementation: it retains every
// timestamped event for the last `window` of wall-clock time and
// computes the exact heavy-hitter set on demand. It exists only to
// check the sketch's approximation, never in production code.
type exactOracle struct {
	window time.Duration
	share  float64
	events []oracleEvent
	now    func() time.Time
}

type oracleEvent struct {
	key string
	at  time.Time
}

func newExactOracle(window time.Duration, share float64) *exactOracle {
	return &exactOracle{window: window, share: share, now: time.Now}
}

func (o *exactOracle) add(key string) {
	o.events = append(o.events, oracleEvent{key: key, at: o.now()})
}

// heavyHitters returns the exact set of keys whose share of events in
// the trailing window strictly exceeds `share`.
func (o *exactOracle) heavyHitters() map[string]bool {
	now := o.now()
	since := now.Add(-o.window)

	kept := o.events[:0:0]
	counts := map[string]int64{}
	var total int64
	for _, e := range o.events {
		if e.at.Before(since) {
			continue
		}
		kept = append(kept, e)
		counts[e.key]++
		total++
	}
	o.events = kept

	result := map[string]bool{}
	for k, c := range counts {
		if float64(c) > float64(total)*o.share {
			result[k] = true
		}
	}
	return result
}

// isSubsetOf reports whether every key in `got` also appears in
// `expected` — the soundness bar the sketch's threshold-mode output
// must clear against the exact oracle.
func isSubsetOf(got []string, expected map[string]bool) bool {
	for _, k := range got {
		if !expected[k] {
			return false
		}
	}
	return true
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
