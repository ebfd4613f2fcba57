package models

import (
	"fmt"
	"sync"
)

// historyLimit caps retained superseded snapshots per model type.
const historyLimit = 3

// Registry holds the active snapshot for each model type. Reads never
// block behind training: snapshots are immutable and publishing swaps
// the map entry under a short write lock.
type Registry struct {
	mu       sync.RWMutex
	active   map[ModelType]*Snapshot
	history  map[ModelType][]*Snapshot
	versions map[ModelType]int
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		active:   make(map[ModelType]*Snapshot),
		history:  make(map[ModelType][]*Snapshot),
		versions: make(map[ModelType]int),
	}
}

// Get returns the active snapshot for a model type, or
// ErrModelUnavailable when none has been published.
func (r *Registry) Get(mt ModelType) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot, ok := r.active[mt]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, mt)
	}
	return snapshot, nil
}

// Publish assigns the next version for the snapshot's model type and
// makes it the active snapshot. The superseded snapshot moves into the
// type's bounded history.
func (r *Registry) Publish(snapshot *Snapshot) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	mt := snapshot.ModelType
	r.versions[mt]++
	snapshot.Version = r.versions[mt]

	if prev, ok := r.active[mt]; ok {
		r.history[mt] = append(r.history[mt], prev)
		if len(r.history[mt]) > historyLimit {
			r.history[mt] = r.history[mt][len(r.history[mt])-historyLimit:]
		}
	}
	r.active[mt] = snapshot
	return snapshot
}

// Install places a previously persisted snapshot into the registry,
// preserving its version. Used to warm the registry from stored
// artifacts at startup; snapshots with stale versions are ignored.
func (r *Registry) Install(snapshot *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mt := snapshot.ModelType
	if snapshot.Version <= r.versions[mt] {
		return
	}
	r.versions[mt] = snapshot.Version
	r.active[mt] = snapshot
}

// History returns superseded snapshots for a model type, oldest first.
func (r *Registry) History(mt ModelType) []*Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Snapshot, len(r.history[mt]))
	copy(out, r.history[mt])
	return out
}
