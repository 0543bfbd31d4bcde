// Command heavykeysd is a demo binary wiring the keyed store façade
// to the optional cluster-reporting satellite. It is not part of the
// core library's public contract; it exists only to exercise the
// ambient and domain stack end to end.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	log "github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turing228/map-get-fresh-top-k/cluster"
	"github.com/turing228/map-get-fresh-top-k/config"
	"github.com/turing228/map-get-fresh-top-k/store"
)

var (
	configPath    = flag.String("config", "/etc/heavykeys/config.yaml", "path to the YAML config file")
	secretsPath   = flag.String("secrets_path", "/etc/consul/heavykeys.json", "consul token secrets file")
	metricsAddr   = flag.String("metrics_addr", ":9090", "address to serve /metrics on")
	reportPort    = flag.Int("report_port", 8990, "port this shard advertises for peer reports")
	minSlabBytes  = flag.Uint64("min_slab_bytes", 96, "default value byte size for the cross-shard tie-breaker")
	enableCluster = flag.Bool("cluster", false, "enable the cross-process cluster-aggregation satellite")
)

func main() {
	flag.Parse()

	settings := config.Load(*configPath)
	if err := config.WatchSecrets(*secretsPath, 10*time.Minute); err != nil {
		log.Warningf("<heavykeysd> starting without consul secrets: %v", err)
	}

	st, err := store.New[string, string](settings.SketchConfig())
	if err != nil {
		log.Fatalf("<heavykeysd> invalid sketch configuration: %v", err)
	}

	go serveMetrics(*metricsAddr)

	if *enableCluster {
		startCluster(st, settings, *reportPort, *minSlabBytes)
	}

	log.Infof("<heavykeysd> ready, window=%v share=%v buckets=%d capacity=%d",
		settings.Window, settings.Share, settings.Buckets, settings.BucketCapacity)

	demo(st)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Infof("<heavykeysd> serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("<heavykeysd> metrics server stopped: %v", err)
	}
}

func startCluster(st *store.Store[string, string], settings config.Settings, reportPort int, minSlabBytes uint64) {
	consulClient, err := cluster.NewConsulClient()
	if err != nil {
		log.Errorf("<heavykeysd> cluster disabled, consul client failed: %v", err)
		return
	}

	registry := cluster.NewPeerRegistry(settings.ServiceName, consulClient)
	stop := make(chan struct{})
	registry.StartRefreshing(settings.ReportInterval, stop)

	identity := cluster.Identity("", reportPort)
	cluster.NewReporter(st, identity, settings.ReportKey, 10, settings.ReportInterval, registry)

	sizer := cluster.NewValueSizer(minSlabBytes, settings.Window)
	st.SetSizeRecorder(func(key, value string) {
		exptime := time.Now().Add(settings.Window).Unix()
		sizer.Record(key, uint64(len(fmt.Sprint(value))), exptime)
	})

	if _, err := cluster.NewAggregator(settings.ServiceName, settings.ReportKey, 10, settings.ReportInterval*10, registry, sizer); err != nil {
		log.Errorf("<heavykeysd> aggregator disabled: %v", err)
	}
}

// demo exercises Get/Set/TopK against stdin-free synthetic traffic so
// a reader can see the store behave without wiring up a real caller;
// it never returns.
func demo(st *store.Store[string, string]) {
	ticker := time.NewTicker(time.Second)
	tick := 0
	for range ticker.C {
		tick++
		st.Set(fmt.Sprintf("key_%d", tick%3), fmt.Sprintf("val_%d", tick))
		st.Get("key_0")
		log.Infof("<heavykeysd> topk: %v", st.TopK(0))
	}
}
