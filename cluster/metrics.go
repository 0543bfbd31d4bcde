package cluster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heavykeys_cluster_reports_total",
		Help: "Shard reports published to memcached, by outcome.",
	}, []string{"outcome"})

	aggregationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heavykeys_cluster_aggregations_total",
		Help: "Cluster-wide aggregation passes run by the elected leader, by outcome.",
	}, []string{"outcome"})
)
