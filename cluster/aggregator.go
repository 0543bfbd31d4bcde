package cluster

import (
	"container/heap"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	log "github.com/golang/glog"
	consulapi "github.com/hashicorp/consul/api"
)

// rankedEntry and rankedEntries give container/heap a max-heap over
// cross-shard merge scores. A shard's TopK() only exposes an ordered
// key list, not raw counts, so the merge score here is a Borda count
// (list length minus position) summed across shards rather than a
// count-weighted score, since there are no counts to weight by. size
// only decides ordering between entries of equal score.
type rankedEntry struct {
	key   string
	score uint64
	size  uint64
}

type rankedEntries []*rankedEntry

func (e rankedEntries) Len() int { return len(e) }
func (e rankedEntries) Less(i, j int) bool {
	if e[i].score != e[j].score {
		return e[i].score > e[j].score
	}
	return e[i].size > e[j].size
}
func (e rankedEntries) Swap(i, j int) { e[i], e[j] = e[j], e[i] }
func (e *rankedEntries) Push(x interface{}) { *e = append(*e, x.(*rankedEntry)) }
func (e *rankedEntries) Pop() interface{} {
	old := *e
	n := len(old)
	item := old[n-1]
	*e = old[:n-1]
	return item
}

// Aggregator merges every shard Reporter's published view into one
// cluster-wide top-N.
type Aggregator struct {
	serviceName string
	reportKey   string
	topN        int
	client      *memcache.Client
	consul      *consulapi.Client
	sizer       *ValueSizer // optional; nil disables size-based tie-breaking
}

// NewAggregator constructs an Aggregator and immediately starts its
// leader-election loop in the background; Aggregate only runs once
// this process wins leadership.
func NewAggregator(serviceName, reportKey string, topN int, interval time.Duration, registry memcache.ServerSelector, sizer *ValueSizer) (*Aggregator, error) {
	consulClient, err := NewConsulClient()
	if err != nil {
		return nil, fmt.Errorf("cluster: aggregator consul client: %w", err)
	}

	a := &Aggregator{
		serviceName: serviceName,
		reportKey:   reportKey,
		topN:        topN,
		client:      memcache.NewFromSelector(registry),
		consul:      consulClient,
		sizer:       sizer,
	}

	go a.elect(interval)
	return a, nil
}

func (a *Aggregator) discoverReporterKeys() []string {
	qo := &consulapi.QueryOptions{AllowStale: true, RequireConsistent: false}
	entries, _, err := a.consul.Health().Service(a.serviceName, "", true, qo)
	if err != nil {
		log.Warningf("<cluster aggregator> discover %s failed: %v", a.serviceName, err)
		return nil
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, fmt.Sprintf("%s:%s", a.reportKey, e.Node.Address))
	}
	return keys
}

func (a *Aggregator) elect(interval time.Duration) {
	lockKey := fmt.Sprintf("%s:%s:leader", a.serviceName, a.reportKey)
	locker, err := a.consul.LockOpts(&consulapi.LockOptions{Key: lockKey})
	if err != nil {
		log.Errorf("<cluster aggregator> stops leadership election due to error: %v", err)
		return
	}

	for {
		leaderCh, err := locker.Lock(nil)
		if err != nil {
			log.Warningf("<cluster aggregator> recover from leadership election error: %v", err)
			continue
		}

		ticker := time.NewTicker(interval)
	leading:
		for {
			select {
			case <-ticker.C:
				log.Infof("<cluster aggregator> aggregation start: %v", time.Now())
				if err := a.Aggregate(); err != nil {
					log.Warningf("<cluster aggregator> aggregation failed: %v", err)
				}
			case _, open := <-leaderCh:
				if !open {
					log.Infof("<cluster aggregator> leadership lost: %v", time.Now())
					ticker.Stop()
					break leading
				}
			}
		}
	}
}

// Aggregate discovers every peer reporter, pulls its published view
// from memcached, merges by Borda score (optionally tie-broken by
// ValueSizer), and republishes the cluster-wide top-N under
// reportKey.
func (a *Aggregator) Aggregate() error {
	reporterKeys := a.discoverReporterKeys()
	if len(reporterKeys) == 0 {
		return nil
	}

	reports, err := a.client.GetMulti(reporterKeys)
	if err != nil {
		aggregationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("cluster: fetch shard reports: %w", err)
	}

	scores := map[string]uint64{}
	for _, report := range reports {
		var keys []string
		if err := json.Unmarshal(report.Value, &keys); err != nil {
			continue
		}
		n := uint64(len(keys))
		for i, key := range keys {
			scores[key] += n - uint64(i)
		}
	}

	ranked := make(rankedEntries, 0, len(scores))
	for key, score := range scores {
		entry := &rankedEntry{key: key, score: score}
		if a.sizer != nil {
			entry.size = a.sizer.Size(key)
		}
		ranked = append(ranked, entry)
	}
	heap.Init(&ranked)

	top := make([]string, 0, a.topN)
	for i := 0; i < a.topN && ranked.Len() > 0; i++ {
		top = append(top, heap.Pop(&ranked).(*rankedEntry).key)
	}

	raw, err := json.Marshal(top)
	if err != nil {
		aggregationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("cluster: marshal aggregate: %w", err)
	}

	err = a.client.Set(&memcache.Item{Key: a.reportKey, Value: raw})
	if err != nil {
		aggregationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("cluster: publish aggregate: %w", err)
	}
	aggregationsTotal.WithLabelValues("ok").Inc()
	return nil
}
