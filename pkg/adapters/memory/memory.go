// Package memory provides in-process fragment and durable stores. They stand
// in for the browser location and localStorage in tests and embedded use.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/showcase/pkg/core"
)

// Store is a map-backed core.DurableStore.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements core.DurableStore.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put implements core.DurableStore.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return map[string]int{"keys": s.Len()}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string { return "memory-store" }

// Location is an in-memory URL fragment with a navigation history.
// SetFragment pushes a history entry; Back, Forward and Navigate change the
// fragment externally and notify watchers.
type Location struct {
	mu       sync.Mutex
	history  []string
	pos      int
	watchers map[chan string]struct{}
}

// NewLocation creates a Location holding fragment.
func NewLocation(fragment string) *Location {
	return &Location{
		history:  []string{trimHash(fragment)},
		watchers: make(map[chan string]struct{}),
	}
}

// Fragment implements core.FragmentStore.
func (l *Location) Fragment(_ context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history[l.pos], nil
}

// SetFragment implements core.FragmentStore. Writing the current value does
// not add a history entry. Watchers are not notified.
func (l *Location) SetFragment(_ context.Context, fragment string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	fragment = trimHash(fragment)
	if l.history[l.pos] == fragment {
		return nil
	}
	l.history = append(l.history[:l.pos+1], fragment)
	l.pos++
	return nil
}

// Navigate simulates the visitor editing the address bar.
func (l *Location) Navigate(fragment string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history[:l.pos+1], trimHash(fragment))
	l.pos++
	l.notifyLocked()
}

// Back moves one entry back in history. It reports whether it moved.
func (l *Location) Back() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pos == 0 {
		return false
	}
	l.pos--
	l.notifyLocked()
	return true
}

// Forward moves one entry forward in history. It reports whether it moved.
func (l *Location) Forward() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pos >= len(l.history)-1 {
		return false
	}
	l.pos++
	l.notifyLocked()
	return true
}

// History returns a copy of the history entries.
func (l *Location) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}

// WatchFragment implements core.FragmentWatcher. A slow reader sees only
// the latest fragment of a burst of navigations.
func (l *Location) WatchFragment(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 1)
	l.mu.Lock()
	l.watchers[ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.watchers, ch)
		close(ch)
		l.mu.Unlock()
	}()
	return ch, nil
}

func (l *Location) notifyLocked() {
	current := l.history[l.pos]
	for ch := range l.watchers {
		// Replace an unread value; senders hold l.mu, so the send cannot block.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- current:
		default:
		}
	}
}

// State implements introspection.Introspectable.
func (l *Location) State() any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return map[string]any{
		"fragment": l.history[l.pos],
		"history":  len(l.history),
		"watchers": len(l.watchers),
	}
}

// ComponentType implements introspection.Component.
func (l *Location) ComponentType() string { return "memory-location" }

func trimHash(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "#")
}

var (
	_ core.DurableStore            = (*Store)(nil)
	_ core.FragmentStore           = (*Location)(nil)
	_ core.FragmentWatcher         = (*Location)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Location)(nil)
)
