package pipeline

import "sync"

// Exactly one pipeline instance per process is allowed to settle turns.
// Host environments reload the engine without tearing the old one down,
// which used to leave two engines settling the same turn. The registry
// makes registration last-wins: a newly registered instance silently
// retires every earlier one, and a retired instance's Run becomes a no-op.

var registry struct {
	mu     sync.Mutex
	nextID uint64
	active uint64
}

// Instance is a handle proving (or disproving) that this pipeline is the
// process's active one.
type Instance struct {
	id uint64
}

// RegisterInstance claims the active slot, retiring any earlier instance.
func RegisterInstance() *Instance {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.nextID++
	registry.active = registry.nextID
	return &Instance{id: registry.nextID}
}

// Active reports whether this instance still holds the active slot.
func (i *Instance) Active() bool {
	if i == nil {
		return true
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.active == i.id
}

// Release gives the slot up voluntarily. Safe to call on a retired
// instance.
func (i *Instance) Release() {
	if i == nil {
		return
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.active == i.id {
		registry.active = 0
	}
}
