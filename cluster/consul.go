package cluster

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"

	"github.com/turing228/map-get-fresh-top-k/config"
)

// NewConsulClient builds a Consul client using the hot-reloadable ACL
// token from config.CurrentSecrets.
func NewConsulClient() (*consulapi.Client, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Token = config.CurrentSecrets().ConsulToken

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("cluster: consul client: %w", err)
	}
	return client, nil
}
