package fs

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path   string `json:"path"`
	Keys   int    `json:"keys"`
	Loaded bool   `json:"loaded"`
	Writes int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Path:   s.Path,
		Keys:   len(s.entries) + len(s.text),
		Loaded: s.loaded,
		Writes: s.writes,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

// LocationState exposes internal state for observability.
type LocationState struct {
	Path          string `json:"path"`
	WatcherActive bool   `json:"watcher_active"`
	PendingEcho   bool   `json:"pending_self_write"`
}

// State implements introspection.Introspectable.
func (l *Location) State() any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LocationState{
		Path:          l.Path,
		WatcherActive: l.active,
		PendingEcho:   l.lastWritten != nil,
	}
}

// ComponentType implements introspection.Component.
func (l *Location) ComponentType() string {
	return "fs-location"
}

var (
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
	_ introspection.Introspectable = (*Location)(nil)
	_ introspection.Component      = (*Location)(nil)
	_ introspection.Introspectable = (*Loader)(nil)
	_ introspection.Component      = (*Loader)(nil)
)
