package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/showcase/pkg/core"
)

func TestSourceForwardsChanges(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	changes := make(chan core.Change, 2)
	src := NewSource(changes, core.CauseExternal)
	require.NoError(t, src.Start(ctx))

	changes <- core.Change{Cause: core.CauseQuery, Count: 3}
	changes <- core.Change{Cause: core.CauseExternal, Count: 1}
	close(changes)

	var got []core.Change
	for e := range src.Events() {
		c, ok := e.(core.Change)
		require.True(t, ok, "event should be a core.Change, got %T", e)
		got = append(got, c)
	}

	require.Len(t, got, 1)
	assert.Equal(t, core.CauseExternal, got[0].Cause)
	assert.NotEmpty(t, got[0].String())
}

func TestSourceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource(make(chan core.Change))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
