package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/showcase/pkg/core"
)

type changeSource struct {
	changes <-chan core.Change
	causes  map[core.ChangeCause]bool
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits controller changes.
// When causes are given, only changes with one of those causes are emitted.
func NewSource(changes <-chan core.Change, causes ...core.ChangeCause) lifecycle.Source {
	s := &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
	if len(causes) > 0 {
		s.causes = make(map[core.ChangeCause]bool, len(causes))
		for _, c := range causes {
			s.causes[c] = true
		}
	}
	return s
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case c, ok := <-s.changes:
				if !ok {
					return nil
				}
				if s.causes != nil && !s.causes[c.Cause] {
					continue
				}
				// core.Change implements lifecycle.Event (has String())
				select {
				case s.out <- c:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
