package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/showcase/pkg/core"
)

// DefaultSystemDir is the hidden directory holding persisted view state.
const DefaultSystemDir = ".showcase"

// stateFile is the on-disk layout of a Store. JSON values are kept as-is
// under entries; anything else is kept verbatim under text.
type stateFile struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
	Text    map[string]string          `json:"text,omitempty"`
}

// Store is a file-backed core.DurableStore. All keys live in one JSON file
// ({root}/{systemDir}/state.json), rewritten atomically on every Put, like
// localStorage is flushed synchronously. The file is read again before every
// Get and Put, so processes sharing a site keep each other's keys.
type Store struct {
	Path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]json.RawMessage
	text    map[string]string
	loaded  bool
	writes  int
}

// NewStore creates a Store under root/systemDir. Nothing is read until the
// first Get or Put.
func NewStore(root, systemDir string, logger *slog.Logger) *Store {
	if systemDir == "" {
		systemDir = DefaultSystemDir
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:    filepath.Join(root, systemDir, "state.json"),
		logger:  logger,
		entries: make(map[string]json.RawMessage),
		text:    make(map[string]string),
	}
}

// load replaces the in-memory entries with the file content. A missing or
// corrupted file is empty.
func (s *Store) load() error {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		s.entries = make(map[string]json.RawMessage)
		s.text = make(map[string]string)
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn("state file corrupted, starting fresh", "path", s.Path, "error", err)
		f = stateFile{}
	}
	s.entries = f.Entries
	if s.entries == nil {
		s.entries = make(map[string]json.RawMessage)
	}
	s.text = f.Text
	if s.text == nil {
		s.text = make(map[string]string)
	}
	s.loaded = true
	return nil
}

// Get implements core.DurableStore.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	if v, ok := s.entries[key]; ok {
		return append([]byte(nil), v...), nil
	}
	if v, ok := s.text[key]; ok {
		return []byte(v), nil
	}
	return nil, core.ErrNotFound
}

// Put implements core.DurableStore. The file is re-read first and only key
// is changed.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}

	if json.Valid(value) {
		s.entries[key] = json.RawMessage(append([]byte(nil), value...))
		delete(s.text, key)
	} else {
		s.text[key] = string(value)
		delete(s.entries, key)
	}

	data, err := json.MarshalIndent(stateFile{Version: 1, Entries: s.entries, Text: s.text}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}
	if err := writeFileAtomic(s.Path, data, 0644); err != nil {
		return err
	}
	s.writes++
	return nil
}

// Keys returns the stored keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.load()
	keys := make([]string, 0, len(s.entries)+len(s.text))
	for k := range s.entries {
		keys = append(keys, k)
	}
	for k := range s.text {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ core.DurableStore = (*Store)(nil)
