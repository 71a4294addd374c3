package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/showcase/pkg/core"
)

// Location is a file-backed core.FragmentStore: the file holds the fragment
// of one catalog page, the way the address bar holds location.hash.
// Editing the file by hand (or restoring an older copy) is an external
// navigation, reported through WatchFragment.
type Location struct {
	Path string
	// ErrorHandler, if set, receives watcher errors.
	ErrorHandler func(error)

	logger *slog.Logger

	mu          sync.Mutex
	lastWritten *string
	active      bool
}

// NewLocation creates a Location for catalog under root/systemDir.
func NewLocation(root, systemDir, catalog string, logger *slog.Logger) *Location {
	if systemDir == "" {
		systemDir = DefaultSystemDir
	}
	if catalog == "" {
		catalog = "default"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Location{
		Path:   filepath.Join(root, systemDir, catalog+".location"),
		logger: logger,
	}
}

// Fragment implements core.FragmentStore. A missing file is an empty fragment.
func (l *Location) Fragment(_ context.Context) (string, error) {
	data, err := os.ReadFile(l.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return normalizeFragment(string(data)), nil
}

// SetFragment implements core.FragmentStore.
func (l *Location) SetFragment(_ context.Context, fragment string) error {
	fragment = normalizeFragment(fragment)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := writeFileAtomic(l.Path, []byte(fragment+"\n"), 0644); err != nil {
		return err
	}
	l.lastWritten = &fragment
	return nil
}

// WatchFragment implements core.FragmentWatcher. The returned channel is
// closed when ctx is done.
func (l *Location) WatchFragment(ctx context.Context) (<-chan string, error) {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create location directory: %w", err)
	}

	events := make(chan string)
	w := newWatchWorker(l, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		<-w.done
		close(events)
	}()
	return events, nil
}

// isSelfWrite reports whether fragment is what SetFragment wrote last.
// The marker is consumed on every read-back, matching or not, so a later
// external write of the same value is still reported.
func (l *Location) isSelfWrite(fragment string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastWritten == nil {
		return false
	}
	self := *l.lastWritten == fragment
	l.lastWritten = nil
	return self
}

func (l *Location) setWatcherActive(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = active
}

func normalizeFragment(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "#")
}

var (
	_ core.FragmentStore   = (*Location)(nil)
	_ core.FragmentWatcher = (*Location)(nil)
)
