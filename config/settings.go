// Package config loads the ambient configuration for a heavy-key
// store deployment: the sketch parameters plus the cluster-reporting
// settings, from a YAML config file via viper. Environment variables
// and command-line flags are not consulted.
package config

import (
	"time"

	log "github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/turing228/map-get-fresh-top-k/sketch"
)

// Settings is the full set of tunables for a deployed store: the core
// sketch parameters plus the optional cluster-reporting satellite's
// settings.
type Settings struct {
	Window         time.Duration
	Share          float64
	Buckets        int
	BucketCapacity int

	ServiceName    string
	ReportKey      string
	ReportInterval time.Duration
	ConsulAddr     string
}

// SketchConfig extracts the sketch.Config subset of Settings.
func (s Settings) SketchConfig() sketch.Config {
	return sketch.Config{
		Window:         s.Window,
		Share:          s.Share,
		Buckets:        s.Buckets,
		BucketCapacity: s.BucketCapacity,
	}
}

// Defaults matches sketch.DefaultConfig plus reasonable cluster
// defaults.
func Defaults() Settings {
	return Settings{
		Window:         60 * time.Second,
		Share:          0.1,
		Buckets:        12,
		BucketCapacity: 54,
		ServiceName:    "heavykeys",
		ReportKey:      "HEAVYKEYS_HOT_KEYS",
		ReportInterval: time.Second,
		ConsulAddr:     "",
	}
}

// Load reads Settings from the config file at path, falling back to
// Defaults for anything absent. A missing or unreadable file is not
// fatal: Load logs a warning and returns Defaults.
func Load(path string) Settings {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warningf("<config> no usable config at %s, using defaults: %v", path, err)
	}

	return Settings{
		Window:         v.GetDuration("window"),
		Share:          v.GetFloat64("share"),
		Buckets:        v.GetInt("buckets"),
		BucketCapacity: v.GetInt("bucket_capacity"),
		ServiceName:    v.GetString("service_name"),
		ReportKey:      v.GetString("report_key"),
		ReportInterval: v.GetDuration("report_interval"),
		ConsulAddr:     v.GetString("consul_addr"),
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("window", d.Window)
	v.SetDefault("share", d.Share)
	v.SetDefault("buckets", d.Buckets)
	v.SetDefault("bucket_capacity", d.BucketCapacity)
	v.SetDefault("service_name", d.ServiceName)
	v.SetDefault("report_key", d.ReportKey)
	v.SetDefault("report_interval", d.ReportInterval)
	v.SetDefault("consul_addr", d.ConsulAddr)
}
