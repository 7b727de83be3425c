package supervisor

import (
	"maps"
	"sync"
)

// Registry names the running supervisors for /healthz. A nil Registry
// ignores writes and reports nothing.
type Registry struct {
	mu   sync.RWMutex
	sups map[string]*Supervisor
}

func NewRegistry() *Registry {
	return &Registry{sups: map[string]*Supervisor{}}
}

// Set registers sup under name, replacing any previous entry; a nil sup
// removes the name.
func (r *Registry) Set(name string, sup *Supervisor) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if sup == nil {
		delete(r.sups, name)
	} else {
		r.sups[name] = sup
	}
}

func (r *Registry) Delete(name string) { r.Set(name, nil) }

// Snapshot copies the current entries.
func (r *Registry) Snapshot() map[string]*Supervisor {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.sups)
}
