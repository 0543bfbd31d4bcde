package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are process-wide (promauto registers against the default
// registry once at package init), matching the usual Prometheus
// client idiom: every Store instance in a process contributes to the
// same series, distinguished only by the "op" label.
var (
	storeOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heavykeys_store_operations_total",
		Help: "Total Get/Set operations observed by the keyed store facade.",
	}, []string{"op"})

	topKDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "heavykeys_store_topk_duration_seconds",
		Help:    "Latency of TopK queries against the windowed sketch.",
		Buckets: prometheus.DefBuckets,
	})
)

type topKTimer struct{ start time.Time }

func newTopKTimer() *topKTimer { return &topKTimer{start: time.Now()} }

func (t *topKTimer) observeDuration() { topKDuration.Observe(time.Since(t.start).Seconds()) }
