// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.

package control

import (
	"fmt"
	"sync"

	"github.com/sugawarayuuta/sonnet"
)

// Keys the facade publishes and honors on reload.
const (
	KeyRingCapacity = "ring.capacity"
	KeyBatchSize    = "batch.size"
	KeyFlushSpan    = "producer.flush_span"
	KeyCPUAffinity  = "consumer.cpu_affinity"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	copy := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		copy[k] = v
	}
	return copy
}

// Get returns one value and whether it is set.
func (cs *ConfigStore) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	v, ok := cs.config[key]
	return v, ok
}

// GetInt reads an integer value, accepting the numeric types a JSON
// load or a direct Set may have stored.
func (cs *ConfigStore) GetInt(key string) (int, bool) {
	v, ok := cs.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// SetConfig merges new values and dispatches reload if needed.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	cs.dispatchReload()
}

// LoadJSON merges a JSON object into the store. Tuning a running
// pipeline from a config file goes through here.
func (cs *ConfigStore) LoadJSON(data []byte) error {
	var m map[string]any
	if err := sonnet.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("control: parse config: %w", err)
	}
	cs.SetConfig(m)
	return nil
}

// ExportJSON serializes the current snapshot.
func (cs *ConfigStore) ExportJSON() ([]byte, error) {
	return sonnet.Marshal(cs.GetSnapshot())
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// dispatchReload invokes all listeners.
func (cs *ConfigStore) dispatchReload() {
	for _, fn := range cs.listeners {
		go fn()
	}
}
