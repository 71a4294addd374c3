package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/showcase/pkg/debounce"
)

// watchCoalesce is how long a burst of writes to the location file is
// collapsed before the file is read back.
const watchCoalesce = 50 * time.Millisecond

type watchWorker struct {
	*worker.BaseWorker
	loc       *Location
	events    chan<- string
	watcher   *fsnotify.Watcher
	debouncer *debounce.Debouncer
	cancel    context.CancelFunc
	done      chan struct{}

	mu   sync.Mutex
	last string
}

func newWatchWorker(loc *Location, events chan<- string) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fragment-watcher"),
		loc:        loc,
		events:     events,
		done:       make(chan struct{}),
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: atomic writes replace the file, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(w.loc.Path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.loc.Path), err)
	}

	current, _ := w.loc.Fragment(ctx)
	w.last = current
	w.watcher = watcher
	w.debouncer = debounce.New(watchCoalesce)
	w.loc.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.loc.Path,
		}
	})
}

// processFilesystemEvent filters events down to the location file and
// schedules a read-back.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.loc.Path) {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	w.loc.logger.Debug("location event", "op", event.Op.String())
	w.debouncer.Trigger(func() { w.emit(ctx) })
	return true
}

// emit reads the location file and forwards it unless it is our own write
// or the value already reported.
func (w *watchWorker) emit(ctx context.Context) {
	fragment, err := w.loc.Fragment(ctx)
	if err != nil {
		w.handleWatcherError(err)
		return
	}

	w.mu.Lock()
	if fragment == w.last {
		w.mu.Unlock()
		return
	}
	w.last = fragment
	w.mu.Unlock()

	if w.loc.isSelfWrite(fragment) {
		return
	}

	select {
	case w.events <- fragment:
	case <-ctx.Done():
	}
}

func (w *watchWorker) handleWatcherError(err error) {
	w.loc.logger.Error("location watcher error", "error", err)
	if w.loc.ErrorHandler != nil {
		w.loc.ErrorHandler(err)
	}
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer close(w.done)
	// In-flight read-backs must finish before the events channel is closed.
	defer w.debouncer.StopAndWait(5 * time.Second)
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.loc.logger.Enabled(ctx, slog.LevelDebug) {
				w.loc.logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.loc.logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.loc.setWatcherActive(false)
	defer w.watcher.Close()

	return w.mainEventLoop(ctx)
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
