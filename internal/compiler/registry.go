package compiler

import (
	"sync"

	"github.com/rdfreason/reasoner/internal/reasonerr"
)

// Registry is an explicit, caller-owned handle replacing the process-
// dictionary-style module state the teacher's source pattern favors (DESIGN
// NOTES): a content-addressed store keyed by a user-supplied name, so later
// calls can detect staleness by comparing SchemaVersion.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*CompiledRuleSet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*CompiledRuleSet)}
}

// Store records crs under name, replacing any prior entry.
func (r *Registry) Store(name string, crs *CompiledRuleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = crs
}

// Get returns the entry stored under name, or a NotFound error.
func (r *Registry) Get(name string) (*CompiledRuleSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	crs, ok := r.entries[name]
	if !ok {
		return nil, reasonerr.New(reasonerr.NotFound, "compiler.Registry.Get", nil, "no compiled rule set registered as %q", name)
	}
	return crs, nil
}

// Stale reports whether the entry stored under name was compiled against a
// schema version other than currentSchemaVersion, or doesn't exist.
func (r *Registry) Stale(name, currentSchemaVersion string) bool {
	crs, err := r.Get(name)
	if err != nil {
		return true
	}
	return crs.SchemaVersion != currentSchemaVersion
}
