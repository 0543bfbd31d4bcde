package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/golang/glog"
)

// Secrets holds credentials that must be reloadable without a
// restart, notably the Consul ACL token used by the cluster
// aggregator's leader election.
type Secrets struct {
	ConsulToken string
}

var (
	secretsMu sync.Mutex
	secrets   = &Secrets{}
	// ConsulTokenChanged is signaled (non-blocking) whenever a reload
	// replaces a non-empty token with a different one; a load that
	// replaces an empty token does not signal.
	ConsulTokenChanged = make(chan struct{}, 1)
)

// CurrentSecrets returns the most recently loaded secrets.
func CurrentSecrets() *Secrets {
	secretsMu.Lock()
	defer secretsMu.Unlock()
	return secrets
}

// WatchSecrets loads fname once, then reloads it on every tick. The
// initial load's error is returned to the caller; reload errors are
// only logged.
func WatchSecrets(fname string, tick time.Duration) error {
	err := reloadSecrets(fname)
	if tick <= 0 {
		return err
	}

	ticker := time.NewTicker(tick)
	go func() {
		for range ticker.C {
			if err := reloadSecrets(fname); err != nil {
				log.Errorf("<config> unable to reload secrets from %s: %v", fname, err)
			}
		}
	}()
	return err
}

func reloadSecrets(fname string) error {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("config: read secrets: %w", err)
	}

	var parsed struct {
		ConsulToken string `json:"consul_token"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("config: parse secrets: %w", err)
	}

	secretsMu.Lock()
	defer secretsMu.Unlock()
	changed := secrets.ConsulToken != "" && secrets.ConsulToken != parsed.ConsulToken
	secrets = &Secrets{ConsulToken: parsed.ConsulToken}
	if changed {
		select {
		case ConsulTokenChanged <- struct{}{}:
		default:
		}
		log.Info("<config> consul token changed")
	}
	return nil
}
