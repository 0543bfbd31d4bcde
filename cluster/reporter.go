package cluster

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	log "github.com/golang/glog"
)

// Source is anything that can produce a local heavy-hitter view, the
// shape store.Store[string, V] satisfies for any V.
type Source interface {
	TopK(number int) []string
}

// Reporter periodically publishes a shard's local TopK view to
// memcached under "<reportKey>:<identity>".
type Reporter struct {
	identity  string
	source    Source
	reportKey string
	topN      int
	client    *memcache.Client
}

// Identity formats a shard's advertised address; host defaults to the
// local hostname when empty.
func Identity(host string, port int) string {
	if host == "" {
		host, _ = os.Hostname()
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// NewReporter starts a background ticker that reports every interval
// until the process exits.
func NewReporter(source Source, identity, reportKey string, topN int, interval time.Duration, registry memcache.ServerSelector) *Reporter {
	r := &Reporter{
		identity:  identity,
		source:    source,
		reportKey: reportKey,
		topN:      topN,
		client:    memcache.NewFromSelector(registry),
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			r.report()
		}
	}()
	return r
}

func (r *Reporter) report() {
	keys := r.source.TopK(r.topN)
	raw, err := json.Marshal(keys)
	if err != nil {
		log.Errorf("<cluster report:%s> marshal failed: %v", r.identity, err)
		reportsTotal.WithLabelValues("error").Inc()
		return
	}

	item := &memcache.Item{
		Key:   fmt.Sprintf("%s:%s", r.reportKey, r.identity),
		Value: raw,
	}
	if err := r.client.Set(item); err != nil {
		log.Warningf("<cluster report:%s> set failed: %v", r.identity, err)
		reportsTotal.WithLabelValues("error").Inc()
		return
	}
	log.Infof("<cluster report:%s> published %d keys", r.identity, len(keys))
	reportsTotal.WithLabelValues("ok").Inc()
}
