package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrDetached = errors.New("surface detached")

// Surface is the two-way scripting channel of the page hosting the player.
type Surface interface {
	Eval(ctx context.Context, script string) error
}

// Channel forwards scripts to a surface. Until the surface has been attached
// and opened, scripts are queued; opening flushes them in issuance order.
type Channel struct {
	mu      sync.Mutex
	surface Surface
	open    bool
	pending []string
}

func NewChannel() *Channel {
	return &Channel{}
}

// Send never waits for readiness: before Open the script is queued.
func (c *Channel) Send(ctx context.Context, script string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		c.pending = append(c.pending, script)
		return nil
	}

	if err := c.surface.Eval(ctx, script); err != nil {
		return fmt.Errorf("failed to eval script: %w", err)
	}

	return nil
}

// Attach binds a surface without opening the channel.
func (c *Channel) Attach(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surface = s
	c.open = false
}

// Open flushes the queue and switches to direct delivery. If a queued script
// fails, it and everything after it stay queued and the channel stays closed.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface == nil {
		return ErrDetached
	}
	if c.open {
		return nil
	}

	for len(c.pending) > 0 {
		if err := c.surface.Eval(ctx, c.pending[0]); err != nil {
			return fmt.Errorf("failed to flush queued script: %w", err)
		}
		c.pending = c.pending[1:]
	}
	c.pending = nil
	c.open = true

	return nil
}

// Detach drops the surface; later sends are queued until the next Open.
// It is a no-op when s is not the attached surface.
func (c *Channel) Detach(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface != s {
		return
	}

	c.surface = nil
	c.open = false
}

func (c *Channel) isOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.open
}

func (c *Channel) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pending)
}
