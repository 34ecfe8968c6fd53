package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSurface struct {
	mu      sync.Mutex
	scripts []string
	failOn  string
}

func (s *recordingSurface) Eval(_ context.Context, script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if script == s.failOn {
		return errors.New("eval failed")
	}
	s.scripts = append(s.scripts, script)
	return nil
}

func TestQueuedUntilOpen(t *testing.T) {
	ctx := context.Background()
	c := NewChannel()
	s := &recordingSurface{}

	require.NoError(t, c.Send(ctx, "play()"))
	c.Attach(s)
	require.NoError(t, c.Send(ctx, "seekTo(10, true)"))
	require.NoError(t, c.Send(ctx, "pause()"))
	assert.Empty(t, s.scripts)
	assert.Equal(t, 3, c.pendingCount())

	require.NoError(t, c.Open(ctx))
	assert.Equal(t, []string{"play()", "seekTo(10, true)", "pause()"}, s.scripts)
	assert.True(t, c.isOpen())

	require.NoError(t, c.Send(ctx, "mute()"))
	assert.Equal(t, "mute()", s.scripts[3])
	assert.Equal(t, 0, c.pendingCount())
}

func TestConcurrentSendsBeforeOpenAreNotLost(t *testing.T) {
	ctx := context.Background()
	c := NewChannel()
	s := &recordingSurface{}
	c.Attach(s)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Send(ctx, fmt.Sprintf("setVolume(%d)", i))
		}(i)
	}
	wg.Wait()

	require.NoError(t, c.Open(ctx))
	assert.Len(t, s.scripts, 50)
}

func TestOpenWithoutSurface(t *testing.T) {
	c := NewChannel()
	assert.ErrorIs(t, c.Open(context.Background()), ErrDetached)
}

func TestFailedFlushKeepsRemainder(t *testing.T) {
	ctx := context.Background()
	c := NewChannel()
	s := &recordingSurface{failOn: "b"}
	c.Attach(s)

	for _, script := range []string{"a", "b", "c"} {
		require.NoError(t, c.Send(ctx, script))
	}

	assert.Error(t, c.Open(ctx))
	assert.False(t, c.isOpen())
	assert.Equal(t, 2, c.pendingCount())

	s.failOn = ""
	require.NoError(t, c.Open(ctx))
	assert.Equal(t, []string{"a", "b", "c"}, s.scripts)
}

func TestDetachRequeues(t *testing.T) {
	ctx := context.Background()
	c := NewChannel()
	first := &recordingSurface{}
	c.Attach(first)
	require.NoError(t, c.Open(ctx))

	other := &recordingSurface{}
	c.Detach(other)
	assert.True(t, c.isOpen())

	c.Detach(first)
	require.NoError(t, c.Send(ctx, "play()"))
	assert.Empty(t, first.scripts)

	second := &recordingSurface{}
	c.Attach(second)
	require.NoError(t, c.Open(ctx))
	assert.Equal(t, []string{"play()"}, second.scripts)
}
