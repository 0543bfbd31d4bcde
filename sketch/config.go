package sketch

import "time"

// Config is the immutable-after-construction configuration of a
// WindowedSketch: the control window W, the heavy-hitter share θ, the
// bucket count B and the per-bucket Misra-Gries capacity m.
type Config struct {
	// Window (W) is the duration over which "frequency" is defined.
	Window time.Duration
	// Share (θ) is the minimum fraction of events in W for a key to
	// qualify as a heavy hitter.
	Share float64
	// Buckets (B) is the number of time-staggered live buckets.
	// Memory is proportional to B.
	Buckets int
	// BucketCapacity (m) is the max distinct keys tracked per bucket.
	BucketCapacity int
}

// DefaultConfig matches the reference implementation: a 60s window,
// 10% share, 12 buckets and 54 counters per bucket.
func DefaultConfig() Config {
	return Config{
		Window:         60 * time.Second,
		Share:          0.1,
		Buckets:        12,
		BucketCapacity: 54,
	}
}

// fullWindow is F = W*(B+1)/B, the maximum possible age of the oldest
// live bucket.
func (c Config) fullWindow() time.Duration {
	return c.Window * time.Duration(c.Buckets+1) / time.Duration(c.Buckets)
}

// stride is S = F/(B+1) = W/B, the time offset between adjacent
// buckets' creation.
func (c Config) stride() time.Duration {
	return c.Window / time.Duration(c.Buckets)
}
