package debounce

import (
	"context"
	"log/slog"
	"time"
)

// QuerySetter receives the settled query text.
type QuerySetter interface {
	SetQuery(ctx context.Context, text string)
}

// InputBinder turns raw text-input events into debounced SetQuery calls.
// Only the last event of a burst reaches the target.
type InputBinder struct {
	ctx       context.Context
	target    QuerySetter
	debouncer *Debouncer
	logger    *slog.Logger
}

// BinderOption configures an InputBinder.
type BinderOption func(*InputBinder)

// WithScheduler replaces the system clock, e.g. with a manual one in tests.
func WithScheduler(s Scheduler) BinderOption {
	return func(b *InputBinder) {
		b.debouncer = NewWithScheduler(b.debouncer.Interval(), s)
	}
}

// WithBinderLogger sets the logger.
func WithBinderLogger(l *slog.Logger) BinderOption {
	return func(b *InputBinder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewInputBinder binds target with the given quiet interval. ctx is passed
// to every SetQuery call; once it is done pending input is discarded.
func NewInputBinder(ctx context.Context, target QuerySetter, interval time.Duration, opts ...BinderOption) *InputBinder {
	b := &InputBinder{
		ctx:       ctx,
		target:    target,
		debouncer: New(interval),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Input records a raw input event.
func (b *InputBinder) Input(text string) {
	b.logger.Debug("input", "text", text)
	b.debouncer.Trigger(func() {
		if b.ctx.Err() != nil {
			return
		}
		b.logger.Debug("input settled", "text", text)
		b.target.SetQuery(b.ctx, text)
	})
}

// Flush delivers pending input immediately (e.g. on Enter or blur).
func (b *InputBinder) Flush() { b.debouncer.Flush() }

// Close discards pending input.
func (b *InputBinder) Close() { b.debouncer.Stop() }
