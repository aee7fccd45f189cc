package topicmgr

import (
	"sort"
	"sync"
	"time"
)

// Registry is the guarded topic table together with its DataVersion.
// Every method holds the guard only for the duration of the map operation.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]TopicConfig
	version DataVersion
}

// NewRegistry creates an empty topic table.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]TopicConfig),
	}
}

// Get returns a copy of the config stored for name.
func (r *Registry) Get(name string) (TopicConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.entries[name]
	if !ok {
		return TopicConfig{}, false
	}
	return cfg.Clone(), true
}

// Contains reports whether name is in the table.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[name]
	return ok
}

// Put inserts or replaces cfg and returns the previous value, if any.
func (r *Registry) Put(cfg TopicConfig) (TopicConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.entries[cfg.TopicName]
	r.entries[cfg.TopicName] = cfg.Clone()
	return old, ok
}

// InsertIfAbsentAndAdvance inserts cfg and advances the version unless an entry for its
// name already exists. It returns the entry that is in the table afterwards and whether
// it was inserted by this call.
func (r *Registry) InsertIfAbsentAndAdvance(cfg TopicConfig, stateVersion int64, now time.Time) (TopicConfig, bool, DataVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[cfg.TopicName]; ok {
		return existing.Clone(), false, r.version
	}
	r.entries[cfg.TopicName] = cfg.Clone()
	r.version.Next(stateVersion, now)
	return cfg.Clone(), true, r.version
}

// Modify replaces the entry of name with the result of fn and advances the version, all
// under the table guard. fn gets a copy of the current entry; when it returns an error
// nothing changes.
func (r *Registry) Modify(name string, fn func(current TopicConfig, exists bool) (TopicConfig, error), stateVersion int64, now time.Time) (Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.entries[name]
	next, err := fn(current.Clone(), exists)
	if err != nil {
		return Change{}, err
	}
	r.entries[name] = next.Clone()
	r.version.Next(stateVersion, now)
	return Change{Old: current, Replaced: exists, New: next, Version: r.version}, nil
}

// Change describes a table entry replaced by Modify.
type Change struct {
	Old      TopicConfig
	Replaced bool
	New      TopicConfig
	Version  DataVersion
}

// Remove deletes name and returns the removed value, if any.
func (r *Registry) Remove(name string) (TopicConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.entries[name]
	if ok {
		delete(r.entries, name)
	}
	return old, ok
}

// RemoveAndAdvance deletes name and advances the version only when something was removed.
func (r *Registry) RemoveAndAdvance(name string, stateVersion int64, now time.Time) (TopicConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.entries[name]
	if !ok {
		return TopicConfig{}, false
	}
	delete(r.entries, name)
	r.version.Next(stateVersion, now)
	return old, true
}

// Advance moves the version forward without touching the table.
func (r *Registry) Advance(stateVersion int64, now time.Time) DataVersion {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.version.Next(stateVersion, now)
	return r.version
}

// Version returns the current DataVersion.
func (r *Registry) Version() DataVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// Snapshot returns a deep copy of the table and the version it corresponds to.
func (r *Registry) Snapshot() (map[string]TopicConfig, DataVersion) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table := make(map[string]TopicConfig, len(r.entries))
	for name, cfg := range r.entries {
		table[name] = cfg.Clone()
	}
	return table, r.version
}

// Merge inserts every entry of table and assigns version.
func (r *Registry) Merge(table map[string]TopicConfig, version DataVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, cfg := range table {
		if cfg.TopicName == "" {
			cfg.TopicName = name
		}
		r.entries[name] = cfg.Clone()
	}
	r.version.Assign(version)
}

// Names returns the sorted topic names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of topics in the table.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
