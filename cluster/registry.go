// Package cluster provides the optional cross-process satellite that
// aggregates several Store shards' independent TopK views into one
// cluster-wide view. None of it is required for a single-process
// Store to work correctly.
package cluster

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	log "github.com/golang/glog"
	consulapi "github.com/hashicorp/consul/api"
)

// PeerRegistry implements memcache.ServerSelector over the set of
// peer report processes discovered via Consul's health-checked
// service catalog. Liveness is Consul's own health check; PeerRegistry
// does not additionally probe a candidate itself.
type PeerRegistry struct {
	mu          sync.RWMutex
	servers     *memcache.ServerList
	consul      *consulapi.Client
	serviceName string
}

// NewPeerRegistry builds a registry that discovers peers registered
// under serviceName in Consul.
func NewPeerRegistry(serviceName string, consulClient *consulapi.Client) *PeerRegistry {
	return &PeerRegistry{
		servers:     &memcache.ServerList{},
		consul:      consulClient,
		serviceName: serviceName,
	}
}

// Refresh re-discovers healthy peers and updates the server list.
func (r *PeerRegistry) Refresh() error {
	qo := &consulapi.QueryOptions{AllowStale: true, RequireConsistent: false}
	entries, _, err := r.consul.Health().Service(r.serviceName, "", true, qo)
	if err != nil {
		return fmt.Errorf("cluster: discover peers for %s: %w", r.serviceName, err)
	}

	addrs := make([]string, 0, len(entries))
	for _, e := range entries {
		addrs = append(addrs, fmt.Sprintf("%s:%d", e.Node.Address, e.Service.Port))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.servers.SetServers(addrs...)
}

// PickServer implements memcache.ServerSelector.
func (r *PeerRegistry) PickServer(key string) (net.Addr, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.servers.PickServer(key)
}

// Each implements memcache.ServerSelector.
func (r *PeerRegistry) Each(f func(net.Addr) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.servers.Each(f)
}

// StartRefreshing refreshes the peer list on a ticker until stop is
// closed.
func (r *PeerRegistry) StartRefreshing(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Refresh(); err != nil {
					log.Warningf("<cluster registry> refresh failed: %v", err)
				}
			case <-stop:
				return
			}
		}
	}()
}
