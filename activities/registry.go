package activities

import (
	"io"
	"sort"
	"sync"
)

// Activity is a renderable unit selected from the menu.
type Activity interface {
	Name() string
	Render(w io.Writer) error
}

// Registry maps module identifiers to loaded activities. One registry is
// created per session and cleared with Reset when the session ends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Activity
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]Activity{}}
}

// Store installs activity under id, replacing any previous entry.
func (r *Registry) Store(id string, activity Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = activity
}

// Lookup returns the activity registered under id.
func (r *Registry) Lookup(id string) (Activity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	activity, ok := r.entries[id]
	return activity, ok
}

// IDs returns a sorted list of registered identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered activities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset drops every entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = map[string]Activity{}
}
