package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/showcase/pkg/core"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrNotFound)

	value := []byte("v1")
	require.NoError(t, s.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got), "stored value is copied")
	assert.Equal(t, 1, s.Len())
}

func TestLocation_History(t *testing.T) {
	ctx := context.Background()
	l := NewLocation("#q=a")

	require.NoError(t, l.SetFragment(ctx, "q=b"))
	require.NoError(t, l.SetFragment(ctx, "#q=b"))
	assert.Equal(t, []string{"q=a", "q=b"}, l.History(), "rewriting the current value adds nothing")

	assert.True(t, l.Back())
	assert.False(t, l.Back())
	frag, _ := l.Fragment(ctx)
	assert.Equal(t, "q=a", frag)

	assert.True(t, l.Forward())
	assert.False(t, l.Forward())

	l.Back()
	l.Navigate("q=c")
	assert.Equal(t, []string{"q=a", "q=c"}, l.History(), "navigating drops forward entries")
}

func TestLocation_WatchFragment(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLocation("")

	ch, err := l.WatchFragment(ctx)
	require.NoError(t, err)

	require.NoError(t, l.SetFragment(ctx, "q=self"))
	l.Navigate("#tag=go")
	assert.Equal(t, "tag=go", <-ch, "own writes are not reported")

	l.Back()
	assert.Equal(t, "q=self", <-ch)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed")
	}
}

func TestLocation_WatchFragmentCoalescesBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewLocation("")

	ch, err := l.WatchFragment(ctx)
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		l.Navigate(fmt.Sprintf("q=n%d", i))
	}

	assert.Equal(t, "q=n29", <-ch, "the latest fragment survives the burst")
	select {
	case f := <-ch:
		t.Fatalf("unexpected stale fragment %q", f)
	default:
	}
}
