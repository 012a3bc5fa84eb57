// control/hotreload.go
// Manages global hot-reload hooks for config changes.
// Adds a TriggerHotReloadSync for deterministic test notification.

package control

import "sync"

var (
	reloadMu    sync.Mutex
	reloadHooks map[string]func()
)

// RegisterReloadHook adds a named component reload listener. Consumer
// loops register under their name so a hook can be replaced when a
// loop restarts.
func RegisterReloadHook(name string, fn func()) {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	if reloadHooks == nil {
		reloadHooks = make(map[string]func())
	}
	reloadHooks[name] = fn
}

// UnregisterReloadHook drops a listener, usually on component shutdown.
func UnregisterReloadHook(name string) {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	delete(reloadHooks, name)
}

// TriggerHotReload dispatches all reload hooks asynchronously.
func TriggerHotReload() {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	for _, fn := range reloadHooks {
		go fn()
	}
}

// TriggerHotReloadSync invokes all reload hooks synchronously (for test determinism).
func TriggerHotReloadSync() {
	reloadMu.Lock()
	hooks := make([]func(), 0, len(reloadHooks))
	for _, fn := range reloadHooks {
		hooks = append(hooks, fn)
	}
	reloadMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}
