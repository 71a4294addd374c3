package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/showcase/pkg/core"
)

// DefaultPattern matches the data files of a site.
const DefaultPattern = "data/**/*.{json,yaml,yml,md,csv}"

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Root      string
	Pattern   string
	SystemDir string
	// NoCache disables the parsed-record cache in {SystemDir}/index.json.
	NoCache  bool
	Decoders map[string]Decoder
	Logger   *slog.Logger
}

// Loader reads a core.Collection from data files under a root.
type Loader struct {
	config LoaderConfig
	cache  *cache
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(config LoaderConfig) *Loader {
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Decoders == nil {
		config.Decoders = DefaultDecoders()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	l := &Loader{config: config, logger: logger}
	if !config.NoCache {
		l.cache = newCache(config.Root, config.SystemDir)
	}
	return l
}

// Files returns the data files matched by the pattern, relative to the root
// with forward slashes, in lexical order.
func (l *Loader) Files() ([]string, error) {
	if !doublestar.ValidatePattern(l.config.Pattern) {
		return nil, fmt.Errorf("invalid pattern %q", l.config.Pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(l.config.Root), l.config.Pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob %q: %w", l.config.Pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		m = filepath.ToSlash(filepath.Clean(m))
		if m == "." || strings.HasPrefix(m, "../") {
			continue
		}
		if first, _, _ := strings.Cut(m, "/"); first == l.config.SystemDir {
			continue
		}
		if _, ok := l.config.Decoders[strings.ToLower(path.Ext(m))]; !ok {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every matched file. Records keep file order, then in-file order.
// A file that fails to decode is skipped and logged; the error of the first
// such file is returned alongside the records that did load.
func (l *Loader) Load(ctx context.Context) (core.Collection, error) {
	files, err := l.Files()
	if err != nil {
		return core.Collection{}, err
	}

	if l.cache != nil {
		if err := l.cache.Load(); err != nil {
			l.logger.Warn("record cache unreadable, parsing all files", "error", err)
		}
	}

	// Files are decoded concurrently; results keep file order.
	type result struct {
		recs []core.Record
		err  error
	}
	results := make([]result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := l.loadFile(rel)
			results[i] = result{recs: recs, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.Collection{}, err
	}

	var (
		records  []core.Record
		firstErr error
		seen     = make(map[string]bool, len(files))
	)
	for i, rel := range files {
		seen[rel] = true
		if err := results[i].err; err != nil {
			l.logger.Warn("skipping data file", "file", rel, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", rel, err)
			}
			continue
		}
		records = append(records, results[i].recs...)
	}

	if l.cache != nil {
		l.cache.Prune(seen)
		if err := l.cache.Save(); err != nil {
			l.logger.Debug("failed to save record cache", "error", err)
		}
	}

	l.logger.Debug("collection loaded", "files", len(files), "records", len(records))
	return core.NewCollection(records), firstErr
}

func (l *Loader) loadFile(rel string) ([]core.Record, error) {
	full := filepath.Join(l.config.Root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if recs, ok := l.cache.Get(rel, info.ModTime()); ok {
			return recs, nil
		}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	decode := l.config.Decoders[strings.ToLower(path.Ext(rel))]
	raws, err := decode(data)
	if err != nil {
		return nil, err
	}

	recs := make([]core.Record, 0, len(raws))
	for _, raw := range raws {
		recs = append(recs, RecordFrom(raw))
	}

	if l.cache != nil {
		l.cache.Set(rel, info.ModTime(), recs)
	}
	return recs, nil
}

// LoaderState exposes internal state for observability.
type LoaderState struct {
	Root       string   `json:"root"`
	Pattern    string   `json:"pattern"`
	Extensions []string `json:"extensions"`
	Cached     int      `json:"cached_files"`
}

// State implements introspection.Introspectable.
func (l *Loader) State() any {
	exts := make([]string, 0, len(l.config.Decoders))
	for ext := range l.config.Decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	st := LoaderState{Root: l.config.Root, Pattern: l.config.Pattern, Extensions: exts}
	if l.cache != nil {
		st.Cached = l.cache.Len()
	}
	return st
}

// ComponentType implements introspection.Component.
func (l *Loader) ComponentType() string {
	return "loader"
}
