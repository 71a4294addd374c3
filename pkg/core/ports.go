package core

import "context"

// FragmentStore is the URL-fragment surface (the browser location hash, or a
// stand-in for it).
type FragmentStore interface {
	// Fragment returns the current raw fragment, with or without a leading '#'.
	Fragment(ctx context.Context) (string, error)

	// SetFragment replaces the fragment.
	SetFragment(ctx context.Context, fragment string) error
}

// FragmentWatcher is implemented by fragment stores that can report changes
// made outside the controller (back/forward navigation, manual edits).
// Changes caused by the store's own SetFragment are not reported.
type FragmentWatcher interface {
	WatchFragment(ctx context.Context) (<-chan string, error)
}

// DurableStore is a synchronous key/value store (localStorage or a file).
// Get returns what Put stored; a store may reformat a JSON value as long as
// the result is equivalent JSON.
type DurableStore interface {
	// Get returns the value under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key.
	Put(ctx context.Context, key string, value []byte) error
}

// Persister reconciles a ViewState with its external representations.
type Persister interface {
	// Load reconstructs the state. It never fails; malformed input degrades
	// to defaults.
	Load(ctx context.Context) ViewState

	// Save writes the state to every surface.
	Save(ctx context.Context, s ViewState) error

	// Changes streams states resulting from external fragment changes.
	Changes(ctx context.Context) (<-chan ViewState, error)

	// SaveDurable writes the state to the durable surface only. It is used
	// after an external fragment change, when the fragment is already current.
	SaveDurable(ctx context.Context, s ViewState) error
}

// Renderer consumes a View after every recomputation.
// Render is called with the controller lock held and must not call back
// into the controller.
type Renderer interface {
	Render(v View) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View) error

// Render calls f(v).
func (f RendererFunc) Render(v View) error { return f(v) }
